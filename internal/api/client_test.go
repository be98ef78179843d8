package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/market-pricer/internal/model"
)

// staticToken is a TokenSource returning a fixed token.
type staticToken string

func (s staticToken) AuthToken() (string, error) {
	if s == "" {
		return "", errors.New("not signed in")
	}
	return string(s), nil
}

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.platform != "pc" {
			t.Errorf("platform = %q, want %q", c.platform, "pc")
		}
		if c.language != "en" {
			t.Errorf("language = %q, want %q", c.language, "en")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
		if c.tokenSource() != nil {
			t.Error("token source should be nil by default")
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		hc := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com",
			WithHTTPClient(hc),
			WithTimeout(15*time.Second),
			WithRetries(10, 500*time.Millisecond),
			WithLogger(logger),
			WithPlatform("ps4"),
			WithLanguage("de"),
			WithTokenSource(staticToken("JWT abc")),
		)
		if c.httpClient != hc {
			t.Error("custom HTTP client not set")
		}
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 10 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 10)
		}
		if c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 500*time.Millisecond)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
		if c.Platform() != "ps4" {
			t.Errorf("Platform() = %q, want %q", c.Platform(), "ps4")
		}
		if c.language != "de" {
			t.Errorf("language = %q, want %q", c.language, "de")
		}
		if c.tokenSource() == nil {
			t.Error("token source not set")
		}
	})

	t.Run("set token source after construction", func(t *testing.T) {
		c := NewClient("https://api.example.com")
		c.SetTokenSource(staticToken("JWT late"))
		if got := c.optionalToken(); got != "JWT late" {
			t.Errorf("optionalToken() = %q, want %q", got, "JWT late")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{
			StatusCode: 404,
			Message:    "Not Found",
			Body:       []byte(`{"error": "item not found"}`),
		}
		expected := "market api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{401, false},
			{403, false},
			{404, false},
			{499, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("sets marketplace headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("Platform") != "pc" {
				t.Errorf("Platform header = %q, want %q", r.Header.Get("Platform"), "pc")
			}
			if r.Header.Get("Language") != "en" {
				t.Errorf("Language header = %q, want %q", r.Header.Get("Language"), "en")
			}
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Authorization header should be empty, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.doRequest(context.Background(), request{method: http.MethodGet, path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(resp.body), `{"status": "ok"}`)
		}
	})

	t.Run("authenticated request attaches token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "JWT token-1" {
				t.Errorf("Authorization header = %q, want %q", r.Header.Get("Authorization"), "JWT token-1")
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithTokenSource(staticToken("JWT token-1")))
		if _, err := c.doRequest(context.Background(), request{method: http.MethodGet, path: "/test", auth: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("authenticated request without session", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer server.Close()

		for _, c := range []*Client{
			NewClient(server.URL),
			NewClient(server.URL, WithTokenSource(staticToken(""))),
		} {
			_, err := c.doRequest(context.Background(), request{method: http.MethodGet, path: "/test", auth: true})
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("error = %v, want ErrUnauthenticated", err)
			}
		}
		if hits != 0 {
			t.Errorf("server hits = %d, want 0", hits)
		}
	})

	t.Run("request body is JSON encoded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
			}
			data, _ := io.ReadAll(r.Body)
			if string(data) != `{"platinum":42}` {
				t.Errorf("body = %s, want %s", data, `{"platinum":42}`)
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		price := 42
		c := NewClient(server.URL)
		_, err := c.doRequest(context.Background(), request{
			method: http.MethodPut,
			path:   "/test",
			body:   model.OrderPatch{Price: &price},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("4xx error returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "not found"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.doRequest(context.Background(), request{method: http.MethodGet, path: "/test"})

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 404)
		}
		if !strings.Contains(string(apiErr.Body), "not found") {
			t.Errorf("Body should contain 'not found', got %q", string(apiErr.Body))
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.doRequest(ctx, request{method: http.MethodGet, path: "/test"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context canceled") {
			t.Errorf("error should contain 'context canceled', got %v", err)
		}
	})
}

// TestDoWithRetry tests the retry logic.
func TestDoWithRetry(t *testing.T) {
	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		resp, err := c.doWithRetry(context.Background(), request{method: http.MethodGet, path: "/test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.body) != `{"ok": true}` {
			t.Errorf("body = %q, want %q", string(resp.body), `{"ok": true}`)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("retries on 429 and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), request{method: http.MethodGet, path: "/test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("does not retry on 4xx (except 429)", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), request{method: http.MethodGet, path: "/test"}); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), request{method: http.MethodGet, path: "/test"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("error should contain 'max retries exceeded', got %v", err)
		}
		// 1 initial + 2 retries = 3 attempts
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})
}

func TestSignIn(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/":
				http.SetCookie(w, &http.Cookie{Name: "JWT", Value: "anon-jwt"})
			case r.Method == http.MethodPost && r.URL.Path == "/auth/signin":
				if got := r.Header.Get("Authorization"); got != "anon-jwt" {
					t.Errorf("Authorization = %q, want anon-jwt", got)
				}
				var body SignInRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body.Email != "trader@example.com" || body.Password != "hunter2" {
					t.Errorf("credentials = %q/%q", body.Email, body.Password)
				}
				if body.AuthType != "header" {
					t.Errorf("auth_type = %q, want header", body.AuthType)
				}
				if body.DeviceID == nil || *body.DeviceID != "device-1" {
					t.Errorf("device_id = %v, want device-1", body.DeviceID)
				}
				w.Header().Set("Authorization", "JWT session-token")
				w.Write([]byte(`{"payload":{"user":{"id":"u1","ingame_name":"Trader","platform":"pc","reputation":12}}}`))
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
		}))
		defer server.Close()

		c := NewClient(server.URL)
		res, err := c.SignIn(context.Background(), "trader@example.com", "hunter2", "device-1")
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if res.Token != "JWT session-token" {
			t.Errorf("Token = %q, want %q", res.Token, "JWT session-token")
		}
		if res.User.InGameName != "Trader" || res.User.Reputation != 12 {
			t.Errorf("User = %+v", res.User)
		}
	})

	t.Run("missing authorization header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"payload":{"user":{"ingame_name":"Trader"}}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.SignIn(context.Background(), "a", "b", "")
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("error = %v, want ErrMissingToken", err)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		var posts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				atomic.AddInt32(&posts, 1)
				w.WriteHeader(http.StatusBadRequest)
			}
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, time.Millisecond))
		_, err := c.SignIn(context.Background(), "a", "b", "")

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
			t.Errorf("error = %v, want APIError 400", err)
		}
		if posts != 1 {
			t.Errorf("sign-in attempts = %d, want 1", posts)
		}
	})
}

func TestGetOwnOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/Trader/orders" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "JWT t" {
			t.Errorf("missing token")
		}
		w.Write([]byte(`{"payload":{
			"buy_orders":[{"id":"b1","platinum":20,"quantity":1,"order_type":"buy","visible":true,
				"item":{"url_name":"serration","tags":["mod","rifle"],"mod_max_rank":10,"en":{"item_name":"Serration"}}}],
			"sell_orders":[{"id":"s1","platinum":120,"quantity":2,"order_type":"sell","visible":false,"mod_rank":5,
				"creation_date":"2024-01-15T12:00:00.000+00:00",
				"item":{"url_name":"arcane_energize","tags":["arcane"],"en":{"item_name":"Arcane Energize"}}}]
		}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithTokenSource(staticToken("JWT t")))
	book, err := c.GetOwnOrders(context.Background(), "Trader")
	if err != nil {
		t.Fatalf("GetOwnOrders failed: %v", err)
	}

	if len(book.Buy) != 1 || len(book.Sell) != 1 {
		t.Fatalf("book sizes = %d/%d, want 1/1", len(book.Buy), len(book.Sell))
	}

	buy := book.Buy[0]
	if buy.Item.Key != "serration" || buy.Item.ModMaxRank != 10 || buy.Item.Name != "Serration" {
		t.Errorf("buy item = %+v", buy.Item)
	}
	if buy.OwnerName != "Trader" || !buy.Visible || buy.Type != model.OrderBuy {
		t.Errorf("buy order = %+v", buy)
	}

	sell := book.Sell[0]
	if sell.RankOrZero() != 5 || sell.Visible {
		t.Errorf("sell order = %+v", sell)
	}
	if sell.CreatedAt.Year() != 2024 {
		t.Errorf("CreatedAt = %v, want 2024", sell.CreatedAt)
	}
}

func TestGetItemOrders(t *testing.T) {
	t.Run("splits by side and maps owner status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/items/item_x/orders" {
				t.Errorf("path = %q", r.URL.Path)
			}
			w.Write([]byte(`{"payload":{"orders":[
				{"id":"1","platinum":100,"order_type":"sell","user":{"ingame_name":"a","status":"ingame"}},
				{"id":"2","platinum":90,"order_type":"sell","user":{"ingame_name":"b","status":"online"}},
				{"id":"3","platinum":80,"order_type":"buy","user":{"ingame_name":"c","status":"offline"}},
				{"id":"4","platinum":70,"order_type":"weird","user":{"ingame_name":"d","status":"ingame"}}
			]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		book, err := c.GetItemOrders(context.Background(), "item_x")
		if err != nil {
			t.Fatalf("GetItemOrders failed: %v", err)
		}
		if len(book.Sell) != 2 || len(book.Buy) != 1 {
			t.Fatalf("book sizes = %d sell / %d buy, want 2/1", len(book.Sell), len(book.Buy))
		}
		if !book.Sell[0].OwnerOnline {
			t.Error("ingame owner should be online")
		}
		if book.Sell[1].OwnerOnline {
			t.Error("site-online owner should not count as online")
		}
		if book.Sell[0].OwnerName != "a" {
			t.Errorf("OwnerName = %q, want a", book.Sell[0].OwnerName)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"payload":{}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.GetItemOrders(context.Background(), "item_x")

		var vErr *model.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})
}

func TestUpdateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/profile/orders/o1" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var patch map[string]any
		json.NewDecoder(r.Body).Decode(&patch)
		if patch["platinum"] != float64(95) {
			t.Errorf("platinum = %v, want 95", patch["platinum"])
		}
		if _, ok := patch["quantity"]; ok {
			t.Error("quantity should be omitted")
		}
		w.Write([]byte(`{"payload":{"order":{"id":"o1","platinum":95,"order_type":"sell","visible":true}}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithTokenSource(staticToken("JWT t")))
	price := 95
	updated, err := c.UpdateOrder(context.Background(), "o1", model.OrderPatch{Price: &price})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if updated.Price != 95 {
		t.Errorf("Price = %d, want 95", updated.Price)
	}

	if _, err := c.UpdateOrder(context.Background(), "o1", model.OrderPatch{}); err == nil {
		t.Error("expected error for empty patch")
	}
}

func TestDeleteOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/profile/orders/o9" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"payload":{"order_id":"o9"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithTokenSource(staticToken("JWT t")))
	ok, err := c.DeleteOrder(context.Background(), "o9")
	if err != nil || !ok {
		t.Errorf("DeleteOrder = %v, %v; want true, nil", ok, err)
	}
}

func TestGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/Trader" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"payload":{"profile":{"id":"u1","ingame_name":"Trader","status":"ingame","last_seen":"2024-01-15T12:00:00Z"}}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	p, err := c.GetProfile(context.Background(), "Trader")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Status != model.StatusInGame {
		t.Errorf("Status = %q, want ingame", p.Status)
	}
	if p.LastSeen.IsZero() {
		t.Error("LastSeen should be parsed")
	}
}

func TestGetItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"payload":{"item":{"id":"set","items_in_set":[
			{"url_name":"ember_prime_set","tags":["prime","set"],"en":{"item_name":"Ember Prime Set"}},
			{"url_name":"ember_prime_chassis","tags":["prime","component"],"en":{"item_name":"Ember Prime Chassis"}}
		]}}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	item, err := c.GetItem(context.Background(), "ember_prime_chassis")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Name != "Ember Prime Chassis" || !item.HasTag("component") {
		t.Errorf("item = %+v", item)
	}

	_, err = c.GetItem(context.Background(), "missing")
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}
