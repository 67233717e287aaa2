// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"strconv"
	"strings"
)

// JoinStorageURL joins a public storage prefix and an object path with
// exactly one slash between them. An empty path yields "".
func JoinStorageURL(prefix, path string) string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/" + path
}

/*
PublicImageURL computes the photo-section image URL served to visitors.

The explicit URL wins; otherwise the stored path is joined onto prefix.
A "v=<updated_at unix>" parameter is appended so a CDN or browser cache never
serves the previous image after an update. Records without updated_at get
no version parameter.
*/
func PublicImageURL(record *PageSettings, prefix string) string {
	if record == nil {
		return ""
	}

	base := record.Fields.Text(FieldPhotoImageURL)
	if base == "" {
		base = JoinStorageURL(prefix, record.Fields.Text(FieldPhotoImagePath))
	}
	if base == "" {
		return ""
	}

	if record.UpdatedAt.IsZero() {
		return base
	}

	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + "v=" + strconv.FormatInt(record.UpdatedAt.UnixMilli(), 10)
}
