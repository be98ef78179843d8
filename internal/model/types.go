package model

import (
	"slices"
	"time"
)

// -----------------------------------------------------------------------------
// Orders
// -----------------------------------------------------------------------------

// OrderType is the side of a listing.
type OrderType string

const (
	OrderBuy  OrderType = "buy"
	OrderSell OrderType = "sell"
)

// Valid reports whether t is a known side.
func (t OrderType) Valid() bool {
	return t == OrderBuy || t == OrderSell
}

// MarketOrder is a single listing on the marketplace, either the caller's own or a competitor's.
// Fetched fresh per analysis pass and never persisted.
type MarketOrder struct {
	ID          string    // Marketplace order id
	Price       int       // Platinum per unit
	Quantity    int       // Units offered
	Type        OrderType // buy or sell
	Rank        *int      // Mod/arcane rank, nil for unranked items
	OwnerName   string    // Owner's in-game name
	OwnerOnline bool      // Owner is in game and able to trade
	Visible     bool      // Listing is shown to other users
	Platform    string    // pc, ps4, xbox, switch
	Region      string    // en, ru, ...
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Item is populated for the caller's own listings; competitor orders
	// fetched per item leave it zero.
	Item Item
}

// RankOrZero returns the order's rank, treating an unranked order as rank 0.
func (o MarketOrder) RankOrZero() int {
	if o.Rank == nil {
		return 0
	}
	return *o.Rank
}

// OrderBook holds the outstanding orders for an item (or a user), split by side.
type OrderBook struct {
	Buy  []MarketOrder
	Sell []MarketOrder
}

// Side returns the orders of the given side.
func (b OrderBook) Side(t OrderType) []MarketOrder {
	if t == OrderBuy {
		return b.Buy
	}
	return b.Sell
}

// OrderPatch is a partial update to one of the caller's listings.
// Nil fields are left unchanged.
type OrderPatch struct {
	Price    *int  `json:"platinum,omitempty"`
	Quantity *int  `json:"quantity,omitempty"`
	Rank     *int  `json:"rank,omitempty"`
	Visible  *bool `json:"visible,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.Price == nil && p.Quantity == nil && p.Rank == nil && p.Visible == nil
}

// -----------------------------------------------------------------------------
// Items
// -----------------------------------------------------------------------------

// Item describes a tradable item. Immutable once classified.
type Item struct {
	Key        string   // url_name, the canonical key
	Name       string   // English display name
	Tags       []string // e.g. "mod", "arcane", "prime"; nil means the payload carried no tag list
	ModMaxRank int      // Declared max rank for mods, 0 otherwise
}

// HasTag reports whether the item carries tag.
func (i Item) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

// Status is an account's presence status.
type Status string

const (
	StatusOnline  Status = "online"
	StatusInGame  Status = "ingame"
	StatusOffline Status = "offline"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusOnline, StatusInGame, StatusOffline:
		return st, nil
	default:
		return "", &ValidationError{Field: "status", Value: s, Reason: "must be one of online, ingame, offline"}
	}
}

// User is the signed-in account.
type User struct {
	ID         string
	InGameName string
	Platform   string
	Region     string
	Locale     string
	Reputation int
	Banned     bool
	Verified   bool
}

// Profile is the public profile of an account.
type Profile struct {
	ID         string
	InGameName string
	Status     Status
	Platform   string
	Reputation int
	LastSeen   time.Time
}
