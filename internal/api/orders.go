package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rickgao/market-pricer/internal/model"
)

// GetOwnOrders fetches all orders, visible and invisible, of the signed-in user.
func (c *Client) GetOwnOrders(ctx context.Context, username string) (model.OrderBook, error) {
	var resp ProfileOrdersResponse
	path := "/profile/" + url.PathEscape(username) + "/orders"
	if err := c.get(ctx, path, nil, true, &resp); err != nil {
		return model.OrderBook{}, fmt.Errorf("get own orders: %w", err)
	}

	if resp.Payload == nil {
		return model.OrderBook{}, &model.ValidationError{Field: "profile orders response", Reason: "missing payload"}
	}

	book := model.OrderBook{
		Buy:  make([]model.MarketOrder, 0, len(resp.Payload.BuyOrders)),
		Sell: make([]model.MarketOrder, 0, len(resp.Payload.SellOrders)),
	}
	for i := range resp.Payload.BuyOrders {
		o := resp.Payload.BuyOrders[i].ToModel(username)
		o.Type = model.OrderBuy
		book.Buy = append(book.Buy, o)
	}
	for i := range resp.Payload.SellOrders {
		o := resp.Payload.SellOrders[i].ToModel(username)
		o.Type = model.OrderSell
		book.Sell = append(book.Sell, o)
	}

	return book, nil
}

// GetItemOrders fetches the competing order book for an item.
func (c *Client) GetItemOrders(ctx context.Context, itemKey string) (model.OrderBook, error) {
	var resp ItemOrdersResponse
	path := "/items/" + url.PathEscape(itemKey) + "/orders"
	if err := c.get(ctx, path, nil, false, &resp); err != nil {
		return model.OrderBook{}, fmt.Errorf("get item orders %s: %w", itemKey, err)
	}

	if resp.Payload == nil || resp.Payload.Orders == nil {
		return model.OrderBook{}, &model.ValidationError{Field: "item orders response", Value: itemKey, Reason: "missing payload.orders"}
	}

	orders := make([]model.MarketOrder, 0, len(resp.Payload.Orders))
	for i := range resp.Payload.Orders {
		orders = append(orders, resp.Payload.Orders[i].ToModel())
	}

	return splitBySide(orders), nil
}

// UpdateOrder applies a patch to one of the caller's orders and returns the updated order.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, patch model.OrderPatch) (*model.MarketOrder, error) {
	if patch.Empty() {
		return nil, &model.ValidationError{Field: "order patch", Value: orderID, Reason: "no fields to update"}
	}

	var resp UpdateOrderResponse
	err := c.call(ctx, request{
		method: http.MethodPut,
		path:   "/profile/orders/" + url.PathEscape(orderID),
		body:   patch,
		auth:   true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}

	if resp.Payload == nil || resp.Payload.Order == nil {
		return nil, &model.ValidationError{Field: "update order response", Value: orderID, Reason: "missing payload.order"}
	}

	o := resp.Payload.Order.ToModel("")
	return &o, nil
}

// DeleteOrder removes one of the caller's orders.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	var resp DeleteOrderResponse
	err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   "/profile/orders/" + url.PathEscape(orderID),
		auth:   true,
	}, &resp)
	if err != nil {
		return false, fmt.Errorf("delete order %s: %w", orderID, err)
	}

	return true, nil
}
