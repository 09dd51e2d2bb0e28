package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Jonathan0148/inventoryproduct/internal/core/domain"
	"github.com/Jonathan0148/inventoryproduct/internal/pkg/retry"
)

const apiKeyHeader = "x-api-key"

// ProductClient calls the remote product catalog (MS1) over HTTP. Every
// lookup is a live round trip; nothing is cached.
type ProductClient struct {
	baseURL       string
	apiKey        string
	client        *http.Client
	retryAttempts int
	retryDelay    time.Duration
	log           *zap.Logger
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    domain.Product `json:"data"`
}

func NewProductClient(baseURL, apiKey string, timeout time.Duration, retryAttempts int, retryDelay time.Duration, log *zap.Logger) *ProductClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductClient{
		baseURL:       baseURL,
		apiKey:        apiKey,
		client:        &http.Client{Timeout: timeout},
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		log:           log.With(zap.String("component", "product_client")),
	}
}

// Fetch retrieves a product by ID. A catalog 404 maps to
// domain.ErrProductNotFound and is never retried; every other failure maps
// to domain.ErrUpstreamUnavailable and is retried up to the configured
// bound with a fixed delay. Exhausting the retries surfaces the typed
// failure rather than a degraded empty product, so callers keep the
// not-found vs. unavailable distinction intact.
func (c *ProductClient) Fetch(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product

	err := retry.Do(ctx, c.retryAttempts, c.retryDelay,
		func(err error) bool {
			return !errors.Is(err, domain.ErrProductNotFound)
		},
		func() error {
			var err error
			product, err = c.fetchOnce(ctx, productID)
			return err
		},
	)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			c.log.Warn("product_fetch_failed",
				zap.Int64("product_id", productID),
				zap.Error(err),
			)
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (c *ProductClient) fetchOnce(ctx context.Context, productID int64) (domain.Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: build request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Product{}, fmt.Errorf("%w: product ID %d", domain.ErrProductNotFound, productID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.Product{}, fmt.Errorf("%w: catalog returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Product{}, fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}

	return body.Data, nil
}
