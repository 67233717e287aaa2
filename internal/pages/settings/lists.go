// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/invitation/internal/platform/ctxutil"
	"github.com/taibuivan/invitation/internal/platform/metrics"
	"github.com/taibuivan/invitation/pkg/uuid"
)

// ItemInput is one element of a submitted list.
type ItemInput struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=4000"`
	// DisplayOrder defaults to the 1-based array position when omitted.
	DisplayOrder *int `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}

// Items returns a page's list in display order.
func (service *Service) Items(context context.Context, pageID string, kind ListKind) ([]ListItem, error) {
	return service.lists.Items(context, pageID, kind)
}

/*
ReplaceList makes inputs the complete list of a page.

Description: This is a full replace. Existing items are deleted, then the
submitted ones are inserted. A failed delete is logged and the insert still
runs (duplicates are preferred over blocking the save). A failed insert is
returned to the caller.

Returns:
  - []ListItem: The items as written
  - error: Insert or transaction failure
*/
func (service *Service) ReplaceList(context context.Context, pageID string, kind ListKind, inputs []ItemInput) ([]ListItem, error) {
	items := make([]ListItem, len(inputs))
	for i, input := range inputs {
		order := i + 1
		if input.DisplayOrder != nil {
			order = *input.DisplayOrder
		}
		items[i] = ListItem{
			ID:           uuid.New(),
			PageID:       pageID,
			Title:        input.Title,
			Description:  input.Description,
			DisplayOrder: order,
		}
	}

	logger := ctxutil.GetLogger(context)

	err := service.lists.InTx(context, func(tx ListRepository) error {
		if err := tx.DeleteItems(context, pageID, kind); err != nil {
			metrics.ListDeleteFailuresTotal.WithLabelValues(string(kind)).Inc()
			logger.Warn("child_list_delete_failed",
				slog.String("page_id", pageID),
				slog.String("kind", string(kind)),
				slog.Any("error", err),
			)
		}

		if len(items) == 0 {
			return nil
		}
		return tx.InsertItems(context, pageID, kind, items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("child_list_replaced",
		slog.String("page_id", pageID),
		slog.String("kind", string(kind)),
		slog.Int("count", len(items)),
	)

	return items, nil
}

// DeleteLists removes both child lists of a page. Each list is attempted
// even if the other fails.
func (service *Service) DeleteLists(context context.Context, pageID string) error {
	var errs []error
	for _, kind := range []ListKind{ListTransport, ListInfo} {
		if err := service.lists.DeleteItems(context, pageID, kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
