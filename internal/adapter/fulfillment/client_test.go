package fulfillment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polkart/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	if _, err := NewHTTPClient(":://bad", testLogger()); err == nil {
		t.Fatal("expected error for malformed url")
	}
	if _, err := NewHTTPClient("relative/path", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestHTTPClientTransfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfers" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Recipient != "tz1buyer" {
			t.Errorf("unexpected recipient %q", req.Recipient)
		}
		if len(req.Items) != 2 || req.Items[0].TokenID != "10" {
			t.Errorf("unexpected items %+v", req.Items)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := []model.Item{
		{ID: 1, Name: "a", Price: 100, TokenID: "10"},
		{ID: 2, Name: "b", Price: 200, TokenID: "20"},
	}
	if err := client.Transfer(context.Background(), items, "tz1buyer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHTTPClientTransferFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mint unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.Transfer(context.Background(), nil, "tz1buyer"); err == nil {
		t.Fatal("expected error for failed transfer")
	}
}
