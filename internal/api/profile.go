package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rickgao/market-pricer/internal/model"
)

// GetProfile fetches a user's public profile, including their presence status.
// The token is attached when available so the caller's own profile reflects
// its live status.
func (c *Client) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	var resp ProfileResponse
	path := "/profile/" + url.PathEscape(username)
	r := request{method: http.MethodGet, path: path}
	if token := c.optionalToken(); token != "" {
		r.header = map[string]string{"Authorization": token}
	}
	if err := c.call(ctx, r, &resp); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", username, err)
	}

	if resp.Payload == nil || resp.Payload.Profile == nil {
		return nil, &model.ValidationError{Field: "profile response", Value: username, Reason: "missing payload.profile"}
	}

	p := resp.Payload.Profile.ToModel()
	return &p, nil
}
