// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/invitation/internal/platform/metrics"
)

func titles(items []ListItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

/*
TestReplaceList_FullReplace verifies that [A, B] then [C] leaves only C.
*/
func TestReplaceList_FullReplace(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "A"}, {Title: "B"}})
	require.NoError(t, err)

	_, err = fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "C"}})
	require.NoError(t, err)

	items, err := fixture.svc.Items(ctx, "page-1", ListTransport)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, titles(items))
}

/*
TestReplaceList_DisplayOrder verifies the 1-based default and explicit orders.
*/
func TestReplaceList_DisplayOrder(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()
	explicit := 10

	written, err := fixture.svc.ReplaceList(ctx, "page-1", ListInfo, []ItemInput{
		{Title: "Parking"},
		{Title: "Dress code", DisplayOrder: &explicit},
		{Title: "Meal"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, written[0].DisplayOrder)
	assert.Equal(t, 10, written[1].DisplayOrder)
	assert.Equal(t, 3, written[2].DisplayOrder)
	for _, item := range written {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "page-1", item.PageID)
	}

	items, err := fixture.svc.Items(ctx, "page-1", ListInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Parking", "Meal", "Dress code"}, titles(items))
}

/*
TestReplaceList_EmptyClears verifies that an empty submission clears the list.
*/
func TestReplaceList_EmptyClears(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListInfo, []ItemInput{{Title: "A"}})
	require.NoError(t, err)

	_, err = fixture.svc.ReplaceList(ctx, "page-1", ListInfo, nil)
	require.NoError(t, err)

	items, err := fixture.svc.Items(ctx, "page-1", ListInfo)
	require.NoError(t, err)
	assert.Empty(t, items)
}

/*
TestReplaceList_DeleteFailureContinues verifies that a failed delete is
logged and counted while the insert still runs.
*/
func TestReplaceList_DeleteFailureContinues(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "Old"}})
	require.NoError(t, err)

	fixture.lists.failDelete = errors.New("delete timed out")
	before := testutil.ToFloat64(metrics.ListDeleteFailuresTotal.WithLabelValues(string(ListTransport)))

	_, err = fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "New"}})
	require.NoError(t, err)

	items, err := fixture.svc.Items(ctx, "page-1", ListTransport)
	require.NoError(t, err)
	// The stale row survives next to the new one: the accepted cost of not blocking the save.
	assert.ElementsMatch(t, []string{"Old", "New"}, titles(items))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ListDeleteFailuresTotal.WithLabelValues(string(ListTransport))))
}

/*
TestReplaceList_InsertFailureSurfaces verifies that a failed insert is
returned and, inside a transaction, the previous list is kept.
*/
func TestReplaceList_InsertFailureSurfaces(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListInfo, []ItemInput{{Title: "Keep me"}})
	require.NoError(t, err)

	insertErr := errors.New("insert rejected")
	fixture.lists.failInsert = insertErr

	_, err = fixture.svc.ReplaceList(ctx, "page-1", ListInfo, []ItemInput{{Title: "Lost"}})
	require.ErrorIs(t, err, insertErr)

	fixture.lists.failInsert = nil
	items, err := fixture.svc.Items(ctx, "page-1", ListInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keep me"}, titles(items))
}

/*
TestReplaceList_PagesAreIsolated verifies lists never leak across pages or kinds.
*/
func TestReplaceList_PagesAreIsolated(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "Bus"}})
	require.NoError(t, err)
	_, err = fixture.svc.ReplaceList(ctx, "page-2", ListTransport, []ItemInput{{Title: "Subway"}})
	require.NoError(t, err)

	items, err := fixture.svc.Items(ctx, "page-1", ListTransport)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bus"}, titles(items))

	info, err := fixture.svc.Items(ctx, "page-1", ListInfo)
	require.NoError(t, err)
	assert.Empty(t, info)
}

/*
TestDeleteLists verifies both lists are attempted and errors are joined.
*/
func TestDeleteLists(t *testing.T) {
	fixture := newFixture(nil, nil)
	ctx := context.Background()

	_, err := fixture.svc.ReplaceList(ctx, "page-1", ListTransport, []ItemInput{{Title: "Bus"}})
	require.NoError(t, err)
	_, err = fixture.svc.ReplaceList(ctx, "page-1", ListInfo, []ItemInput{{Title: "Meal"}})
	require.NoError(t, err)

	require.NoError(t, fixture.svc.DeleteLists(ctx, "page-1"))

	transport, _ := fixture.svc.Items(ctx, "page-1", ListTransport)
	info, _ := fixture.svc.Items(ctx, "page-1", ListInfo)
	assert.Empty(t, transport)
	assert.Empty(t, info)

	fixture.lists.failDelete = errors.New("down")
	assert.Error(t, fixture.svc.DeleteLists(ctx, "page-1"))
}
