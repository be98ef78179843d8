package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/market-pricer/internal/model"
)

// GetItems fetches the full item index.
func (c *Client) GetItems(ctx context.Context) ([]APIItemSummary, error) {
	var resp ItemsResponse
	if err := c.get(ctx, "/items", nil, false, &resp); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	if resp.Payload == nil {
		return nil, &model.ValidationError{Field: "items response", Reason: "missing payload"}
	}

	return resp.Payload.Items, nil
}

// GetItem fetches the descriptor of a single item. Items that belong to a set
// are returned with the set; the entry matching itemKey is selected.
func (c *Client) GetItem(ctx context.Context, itemKey string) (model.Item, error) {
	var resp ItemResponse
	if err := c.get(ctx, "/items/"+url.PathEscape(itemKey), nil, false, &resp); err != nil {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemKey, err)
	}

	if resp.Payload == nil || resp.Payload.Item == nil {
		return model.Item{}, &model.ValidationError{Field: "item response", Value: itemKey, Reason: "missing payload.item"}
	}

	for i := range resp.Payload.Item.ItemsInSet {
		entry := &resp.Payload.Item.ItemsInSet[i]
		if entry.URLName == itemKey {
			return entry.ToModel(), nil
		}
	}

	return model.Item{}, &model.ValidationError{Field: "item", Value: itemKey, Reason: "not present in item response"}
}
