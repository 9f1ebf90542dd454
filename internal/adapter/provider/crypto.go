package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/polkart/storefront/internal/adapter/currency"
	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
)

// cryptoCurrency is the gateway's settlement currency; intents are always
// denominated in it regardless of the requested display currency.
const cryptoCurrency = "xtz"

// CryptoClient talks to the crypto payment gateway. The gateway has no
// webhook delivery, so the client also implements StatusPoller.
type CryptoClient struct {
	baseURL    *url.URL
	converter  currency.Converter
	httpClient *http.Client
	logger     *slog.Logger

	newIntentID func() string
}

type cryptoCreateRequest struct {
	ExternalID string `json:"external_id"`
	Amount     string `json:"amount"`
}

type cryptoCreateResponse struct {
	Message string `json:"message"`
}

type cryptoStatusResponse struct {
	Status string `json:"status"`
}

// NewCryptoClient creates crypto gateway client with default timeout.
func NewCryptoClient(baseURL string, converter currency.Converter, logger *slog.Logger) (*CryptoClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse crypto gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("crypto gateway url must be absolute")
	}
	return &CryptoClient{
		baseURL:   parsed,
		converter: converter,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		newIntentID: func() string { return uuid.NewString() },
	}, nil
}

func (c *CryptoClient) Name() model.PaymentProvider {
	return model.ProviderCrypto
}

// CreateIntent registers a payment with the gateway under a fresh external
// id and returns the gateway's payment message as the client secret.
func (c *CryptoClient) CreateIntent(ctx context.Context, amountBaseUnit int64, _ string) (*model.Intent, error) {
	converted, err := c.converter.Convert(amountBaseUnit, cryptoCurrency)
	if err != nil {
		return nil, err
	}
	display, err := c.converter.Format(converted, cryptoCurrency)
	if err != nil {
		return nil, err
	}

	intentID := c.newIntentID()
	payload, err := json.Marshal(cryptoCreateRequest{ExternalID: intentID, Amount: display})
	if err != nil {
		return nil, domainErrors.NewProviderError(string(model.ProviderCrypto), err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/payments", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.unexpectedStatus("create intent", resp)
	}

	var data cryptoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, domainErrors.NewProviderError(string(model.ProviderCrypto), err)
	}

	return &model.Intent{
		ID:           intentID,
		ClientSecret: data.Message,
		Amount:       display,
		Currency:     cryptoCurrency,
	}, nil
}

// CancelIntent removes the pending payment at the gateway. An already
// removed payment is not an error.
func (c *CryptoClient) CancelIntent(ctx context.Context, intentID string) error {
	resp, err := c.do(ctx, http.MethodDelete, path.Join("/payments", intentID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return c.unexpectedStatus("cancel intent", resp)
	}
}

// PollStatus fetches the gateway's view of the payment and maps it onto the
// internal state machine.
func (c *CryptoClient) PollStatus(ctx context.Context, intentID string) (model.PaymentStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, path.Join("/payments", intentID), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.unexpectedStatus("poll status", resp)
	}

	var data cryptoStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", domainErrors.NewProviderError(string(model.ProviderCrypto), err)
	}

	switch data.Status {
	case "pending":
		return model.PaymentStatusCreated, nil
	case "done":
		return model.PaymentStatusSucceeded, nil
	case "canceled":
		return model.PaymentStatusCanceled, nil
	case "expired":
		return model.PaymentStatusFailed, nil
	default:
		return "", domainErrors.NewProviderError(string(model.ProviderCrypto), fmt.Errorf("unknown gateway status %q", data.Status))
	}
}

func (c *CryptoClient) do(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, domainErrors.NewProviderError(string(model.ProviderCrypto), err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainErrors.NewProviderError(string(model.ProviderCrypto), err)
	}
	return resp, nil
}

func (c *CryptoClient) unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("crypto gateway request failed",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(body)),
	)
	return domainErrors.NewProviderError(string(model.ProviderCrypto), fmt.Errorf("gateway replied %s", resp.Status))
}
