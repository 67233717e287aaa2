// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/invitation/pkg/slug"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already_normal", "minsu-jiyoung", "minsu-jiyoung"},
		{"case_and_space", "  MinSu-JiYoung ", "minsu-jiyoung"},
		{"accents_removed", "élise", "elise"},
		{"inner_space_rejected", "min su", ""},
		{"slash_rejected", "abc/def", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.Handle(tt.input))
		})
	}
}
