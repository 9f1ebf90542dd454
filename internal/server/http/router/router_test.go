package router

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkart/storefront/internal/config"
	"github.com/polkart/storefront/internal/server/http/handlers"
	"github.com/polkart/storefront/internal/server/http/middleware"
	testhelpers "github.com/polkart/storefront/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{WebhookSecret: "whsec_test"}
	facade := testhelpers.StoreFacadeStub{}
	engine := Setup(facade, cfg, logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass", "address": "tz1addr"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unauthenticated cart, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for cart, got %d", resp.Code)
	}

	body, _ = json.Marshal(map[string]string{"provider": "cardgate", "currency": "eur"})
	req = httptest.NewRequest(http.MethodPost, "/api/payment/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for payment create, got %d", resp.Code)
	}

	webhookBody := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	req = httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(webhookBody))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unsigned webhook, got %d", resp.Code)
	}

	mac := hmac.New(sha256.New, []byte(cfg.WebhookSecret))
	mac.Write(webhookBody)
	req = httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(webhookBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for signed webhook, got %d", resp.Code)
	}
}

var _ handlers.StoreFacade = (*testhelpers.StoreFacadeStub)(nil)
