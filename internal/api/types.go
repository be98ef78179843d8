package api

// Every v1 response wraps its content in a "payload" object.

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	DeviceID *string `json:"device_id"`
	AuthType string  `json:"auth_type"`
}

// SignInResponse from POST /auth/signin
type SignInResponse struct {
	Payload *struct {
		User *APIUser `json:"user"`
	} `json:"payload"`
}

// APIUser is the signed-in account.
type APIUser struct {
	ID           string `json:"id"`
	IngameName   string `json:"ingame_name"`
	Platform     string `json:"platform"`
	Region       string `json:"region"`
	Locale       string `json:"locale"`
	Reputation   int    `json:"reputation"`
	Banned       bool   `json:"banned"`
	Verification bool   `json:"verification"`
}

// ProfileResponse from GET /profile/{username}
type ProfileResponse struct {
	Payload *struct {
		Profile *APIProfile `json:"profile"`
	} `json:"payload"`
}

// APIProfile is a public profile.
type APIProfile struct {
	ID         string `json:"id"`
	IngameName string `json:"ingame_name"`
	Status     string `json:"status"`
	Platform   string `json:"platform"`
	Reputation int    `json:"reputation"`
	LastSeen   string `json:"last_seen"`
}

// ProfileOrdersResponse from GET /profile/{username}/orders
type ProfileOrdersResponse struct {
	Payload *struct {
		BuyOrders  []APIOwnOrder `json:"buy_orders"`
		SellOrders []APIOwnOrder `json:"sell_orders"`
	} `json:"payload"`
}

// APIOwnOrder is an order on a profile, carrying its item.
type APIOwnOrder struct {
	ID           string   `json:"id"`
	Platinum     int      `json:"platinum"`
	Quantity     int      `json:"quantity"`
	OrderType    string   `json:"order_type"`
	ModRank      *int     `json:"mod_rank,omitempty"`
	Visible      bool     `json:"visible"`
	Platform     string   `json:"platform"`
	Region       string   `json:"region"`
	CreationDate string   `json:"creation_date"`
	LastUpdate   string   `json:"last_update"`
	Item         *APIItem `json:"item"`
}

// ItemOrdersResponse from GET /items/{url_name}/orders
type ItemOrdersResponse struct {
	Payload *struct {
		Orders []APIItemOrder `json:"orders"`
	} `json:"payload"`
}

// APIItemOrder is a competing order on an item's book, carrying its owner.
type APIItemOrder struct {
	ID           string    `json:"id"`
	Platinum     int       `json:"platinum"`
	Quantity     int       `json:"quantity"`
	OrderType    string    `json:"order_type"`
	ModRank      *int      `json:"mod_rank,omitempty"`
	Visible      bool      `json:"visible"`
	Platform     string    `json:"platform"`
	Region       string    `json:"region"`
	CreationDate string    `json:"creation_date"`
	LastUpdate   string    `json:"last_update"`
	User         *APIOwner `json:"user"`
}

// APIOwner is the owner of a competing order.
type APIOwner struct {
	IngameName string `json:"ingame_name"`
	Status     string `json:"status"`
	Reputation int    `json:"reputation"`
}

// UpdateOrderResponse from PUT /profile/orders/{id}
type UpdateOrderResponse struct {
	Payload *struct {
		Order *APIOwnOrder `json:"order"`
	} `json:"payload"`
}

// DeleteOrderResponse from DELETE /profile/orders/{id}
type DeleteOrderResponse struct {
	Payload *struct {
		OrderID string `json:"order_id"`
	} `json:"payload"`
}

// APIItem describes an item as embedded in orders and item details.
type APIItem struct {
	ID         string   `json:"id"`
	URLName    string   `json:"url_name"`
	Tags       []string `json:"tags"`
	ModMaxRank int      `json:"mod_max_rank,omitempty"`
	En         *struct {
		ItemName string `json:"item_name"`
	} `json:"en,omitempty"`
}

// ItemsResponse from GET /items
type ItemsResponse struct {
	Payload *struct {
		Items []APIItemSummary `json:"items"`
	} `json:"payload"`
}

// APIItemSummary is an entry of the item index.
type APIItemSummary struct {
	ID       string `json:"id"`
	URLName  string `json:"url_name"`
	ItemName string `json:"item_name"`
	Thumb    string `json:"thumb"`
}

// ItemResponse from GET /items/{url_name}
type ItemResponse struct {
	Payload *struct {
		Item *struct {
			ID         string    `json:"id"`
			ItemsInSet []APIItem `json:"items_in_set"`
		} `json:"item"`
	} `json:"payload"`
}
