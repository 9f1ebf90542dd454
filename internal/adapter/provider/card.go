package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/polkart/storefront/internal/adapter/currency"
	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
)

// CardClient talks to the card gateway's payment-intent HTTP API.
type CardClient struct {
	baseURL    *url.URL
	secret     string
	converter  currency.Converter
	httpClient *http.Client
	logger     *slog.Logger
}

// intentResponse mirrors the gateway's payment intent payload.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// NewCardClient creates card gateway client with default timeout.
func NewCardClient(baseURL, secret string, converter currency.Converter, logger *slog.Logger) (*CardClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse card gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("card gateway url must be absolute")
	}
	return &CardClient{
		baseURL:   parsed,
		secret:    secret,
		converter: converter,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *CardClient) Name() model.PaymentProvider {
	return model.ProviderCard
}

// CreateIntent requests an intent in the target currency's smallest units.
func (c *CardClient) CreateIntent(ctx context.Context, amountBaseUnit int64, cur string) (*model.Intent, error) {
	converted, err := c.converter.Convert(amountBaseUnit, cur)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(converted, 10))
	form.Set("currency", cur)

	var data intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &data); err != nil {
		return nil, err
	}

	display, err := c.converter.Format(converted, cur)
	if err != nil {
		return nil, err
	}

	return &model.Intent{
		ID:           data.ID,
		ClientSecret: data.ClientSecret,
		Amount:       display,
		Currency:     cur,
	}, nil
}

// CancelIntent cancels the intent at the gateway. A gateway-side "already
// canceled" response is not an error.
func (c *CardClient) CancelIntent(ctx context.Context, intentID string) error {
	endpoint := path.Join("/v1/payment_intents", intentID, "cancel")
	return c.do(ctx, http.MethodPost, endpoint, url.Values{}, nil)
}

func (c *CardClient) do(ctx context.Context, method, endpoint string, form url.Values, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return domainErrors.NewProviderError(string(model.ProviderCard), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainErrors.NewProviderError(string(model.ProviderCard), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("card gateway request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return domainErrors.NewProviderError(string(model.ProviderCard), fmt.Errorf("gateway replied %s", resp.Status))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainErrors.NewProviderError(string(model.ProviderCard), err)
	}
	return nil
}
