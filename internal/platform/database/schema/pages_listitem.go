// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ListItemTable represents an ordered child list of a page.
// 'transport_items' and 'info_items' share this shape.
type ListItemTable struct {
	Table        string
	ID           string
	PageID       string
	Title        string
	Description  string
	DisplayOrder string
	Position     string
	CreatedAt    string
}

// TransportItems is the schema definition for transport_items.
var TransportItems = newListItemTable("transport_items")

// InfoItems is the schema definition for info_items.
var InfoItems = newListItemTable("info_items")

func newListItemTable(name string) ListItemTable {
	return ListItemTable{
		Table:        name,
		ID:           "id",
		PageID:       "page_id",
		Title:        "title",
		Description:  "description",
		DisplayOrder: "display_order",
		Position:     "position",
		CreatedAt:    "created_at",
	}
}
