package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rickgao/market-pricer/internal/model"
)

// ErrMissingToken is returned when sign-in succeeds but the response lacks an Authorization header.
var ErrMissingToken = errors.New("authorization token not found in response headers")

// SignInResult is the outcome of a successful sign-in.
type SignInResult struct {
	Token string
	User  model.User
}

// SignIn exchanges credentials for a session token.
// deviceID may be empty.
func (c *Client) SignIn(ctx context.Context, email, password, deviceID string) (*SignInResult, error) {
	// The signin endpoint wants the anonymous JWT issued on the first visit.
	jwt, err := c.anonymousJWT(ctx)
	if err != nil {
		c.logger.Debug("no anonymous jwt, signing in without it", "err", err)
	}

	body := SignInRequest{
		Email:    email,
		Password: password,
		AuthType: "header",
	}
	if deviceID != "" {
		body.DeviceID = &deviceID
	}

	header := map[string]string{}
	if jwt != "" {
		header["Authorization"] = jwt
	}

	resp, err := c.doRequest(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signin",
		body:   body,
		header: header,
	})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	token := resp.header.Get("Authorization")
	if token == "" {
		return nil, fmt.Errorf("sign in: %w", ErrMissingToken)
	}

	var out SignInResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("sign in: unmarshal response: %w", err)
	}
	if out.Payload == nil || out.Payload.User == nil {
		return nil, &model.ValidationError{Field: "signin response", Reason: "missing payload.user"}
	}

	return &SignInResult{
		Token: token,
		User:  out.Payload.User.ToModel(),
	}, nil
}

// anonymousJWT fetches the JWT cookie issued to anonymous visitors.
func (c *Client) anonymousJWT(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "JWT" {
			return cookie.Value, nil
		}
	}

	return "", errors.New("no JWT cookie")
}
