package api

import (
	"time"

	"github.com/rickgao/market-pricer/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp.
// Returns the zero time for empty or invalid input.
func ParseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t.UTC()
}

// ToModel converts an APIUser to model.User.
func (u *APIUser) ToModel() model.User {
	return model.User{
		ID:         u.ID,
		InGameName: u.IngameName,
		Platform:   u.Platform,
		Region:     u.Region,
		Locale:     u.Locale,
		Reputation: u.Reputation,
		Banned:     u.Banned,
		Verified:   u.Verification,
	}
}

// ToModel converts an APIProfile to model.Profile.
func (p *APIProfile) ToModel() model.Profile {
	return model.Profile{
		ID:         p.ID,
		InGameName: p.IngameName,
		Status:     model.Status(p.Status),
		Platform:   p.Platform,
		Reputation: p.Reputation,
		LastSeen:   ParseTimestamp(p.LastSeen),
	}
}

// ToModel converts an APIItem to model.Item.
func (i *APIItem) ToModel() model.Item {
	item := model.Item{
		Key:        i.URLName,
		Tags:       i.Tags,
		ModMaxRank: i.ModMaxRank,
	}
	if i.En != nil {
		item.Name = i.En.ItemName
	}
	return item
}

// ToModel converts one of the caller's orders to model.MarketOrder.
// ownerName is the profile the orders were fetched for.
func (o *APIOwnOrder) ToModel(ownerName string) model.MarketOrder {
	m := model.MarketOrder{
		ID:        o.ID,
		Price:     o.Platinum,
		Quantity:  o.Quantity,
		Type:      model.OrderType(o.OrderType),
		Rank:      o.ModRank,
		OwnerName: ownerName,
		Visible:   o.Visible,
		Platform:  o.Platform,
		Region:    o.Region,
		CreatedAt: ParseTimestamp(o.CreationDate),
		UpdatedAt: ParseTimestamp(o.LastUpdate),
	}
	if o.Item != nil {
		m.Item = o.Item.ToModel()
	}
	return m
}

// ToModel converts a competing order to model.MarketOrder.
// Only owners that are in game can trade, so "online" on the site does not count.
func (o *APIItemOrder) ToModel() model.MarketOrder {
	m := model.MarketOrder{
		ID:        o.ID,
		Price:     o.Platinum,
		Quantity:  o.Quantity,
		Type:      model.OrderType(o.OrderType),
		Rank:      o.ModRank,
		Visible:   o.Visible,
		Platform:  o.Platform,
		Region:    o.Region,
		CreatedAt: ParseTimestamp(o.CreationDate),
		UpdatedAt: ParseTimestamp(o.LastUpdate),
	}
	if o.User != nil {
		m.OwnerName = o.User.IngameName
		m.OwnerOnline = o.User.Status == string(model.StatusInGame)
	}
	return m
}

// splitBySide partitions orders into a book, dropping unknown sides.
func splitBySide(orders []model.MarketOrder) model.OrderBook {
	var book model.OrderBook
	for _, o := range orders {
		switch o.Type {
		case model.OrderBuy:
			book.Buy = append(book.Buy, o)
		case model.OrderSell:
			book.Sell = append(book.Sell, o)
		}
	}
	return book
}
