package fulfillment

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

	"github.com/polkart/storefront/internal/domain/model"
)

// Transferrer hands purchased items to the external fulfillment system.
// Callers dispatch fire-and-forget; checkout never waits on the result.
type Transferrer interface {
	Transfer(ctx context.Context, items []model.Item, recipient string) error
}

// HTTPClient implements Transferrer against the minting service's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type transferRequest struct {
	Recipient string         `json:"recipient"`
	Items     []transferItem `json:"items"`
}

type transferItem struct {
	ID      int64  `json:"id"`
	TokenID string `json:"token_id"`
}

// NewHTTPClient creates fulfillment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse fulfillment url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("fulfillment url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Transfer asks the minting service to move items to the recipient address.
func (c *HTTPClient) Transfer(ctx context.Context, items []model.Item, recipient string) error {
	payload := transferRequest{Recipient: recipient, Items: make([]transferItem, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, transferItem{ID: item.ID, TokenID: item.TokenID})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/transfers")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("fulfillment request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return fmt.Errorf("fulfillment error: %s", resp.Status)
	}
	return nil
}
