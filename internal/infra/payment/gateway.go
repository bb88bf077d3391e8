package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/pkg/config"
	"concert-ticket-api/internal/usecase/shared"
)

// NewGateway selects the adapter by configuration. The "approve" and
// "decline" stubs exist for local runs and tests; production uses the
// HTTP adapter.
func NewGateway(cfg config.PaymentConfig) shared.PaymentGateway {
	switch cfg.Mode {
	case "approve":
		return StubGateway{Approved: true}
	case "decline":
		return StubGateway{Approved: false}
	case "threshold":
		return ThresholdGateway{DeclineAboveCents: cfg.DeclineAboveCents}
	default:
		return NewHTTPGateway(cfg)
	}
}

type StubGateway struct {
	Approved bool
}

func (g StubGateway) Authorize(_ context.Context, _ booking.Money) (bool, error) {
	return g.Approved, nil
}

// ThresholdGateway approves everything up to a configured amount. Useful
// for exercising the declined path without an external authorizer.
type ThresholdGateway struct {
	DeclineAboveCents int64
}

func (g ThresholdGateway) Authorize(_ context.Context, amount booking.Money) (bool, error) {
	return amount.Cents() <= g.DeclineAboveCents, nil
}

// HTTPGateway talks to the external authorizer. The outcome is binary
// and final for one booking attempt; there is no partial state to
// reconcile on this side.
type HTTPGateway struct {
	url    string
	client *http.Client
}

func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		url: cfg.GatewayURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type authorizeRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type authorizeResponse struct {
	Approved bool `json:"approved"`
}

func (g *HTTPGateway) Authorize(ctx context.Context, amount booking.Money) (bool, error) {
	body, err := json.Marshal(authorizeRequest{AmountCents: amount.Cents()})
	if err != nil {
		return false, fmt.Errorf("encode authorize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build authorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var out authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode authorize response: %w", err)
	}
	return out.Approved, nil
}
