package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gymstudio/internal/config"
)

// GatewayOrder is the provider's view of a created order. RawBody is kept
// verbatim for the audit trail.
type GatewayOrder struct {
	ID      string
	Status  string
	RawBody string
}

// Gateway is the order-creation and order-lookup surface of the external
// payment provider. Signature verification happens locally against the shared
// secret and never goes over the wire.
type Gateway interface {
	Provider() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*GatewayOrder, error)
}

// HTTPGateway talks to the provider's REST API with basic auth, the way the
// hosted checkout providers expose order APIs.
type HTTPGateway struct {
	cfg    *config.GatewayConfig
	client *http.Client
}

func NewHTTPGateway(cfg *config.GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *HTTPGateway) Provider() string { return "gateway" }

func (g *HTTPGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	return g.do(req)
}

func (g *HTTPGateway) FetchOrder(ctx context.Context, orderID string) (*GatewayOrder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/v1/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	return g.do(req)
}

func (g *HTTPGateway) do(req *http.Request) (*GatewayOrder, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Provider diagnostics are preserved verbatim for operators; the
		// credentials never appear in response bodies.
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrGateway, resp.StatusCode, string(body))
	}

	var parsed struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGateway, err)
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("%w: response missing order id", ErrGateway)
	}

	return &GatewayOrder{ID: parsed.ID, Status: parsed.Status, RawBody: string(body)}, nil
}
