package payments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/overlaydev/cars-node/internal/logger"
)

// settleRequest is the body posted to the provider's settlement endpoint.
type settleRequest struct {
	Reference   string `json:"reference"`
	Satoshis    int64  `json:"satoshis"`
	IdentityKey string `json:"identityKey"`
	Network     string `json:"network"`
}

// settleResponse is the provider's answer.
type settleResponse struct {
	Settled bool   `json:"settled"`
	Reason  string `json:"reason"`
}

// providerClient is the resty-backed [Provider] for one network.
type providerClient struct {
	client  *resty.Client
	network string
	logger  *logger.Logger
}

// NewProviderClient constructs a [Provider] talking to the payment
// provider at baseURL, authorized by the network-specific API key.
func NewProviderClient(baseURL, apiKey, network string, logger *logger.Logger) Provider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	logger.Debug().Str("network", network).Msg("creating payment provider client")
	return &providerClient{
		client:  client,
		network: network,
		logger:  logger,
	}
}

// Settle posts the settlement check. Provider-side rejections map to
// ErrPaymentNotSettled; transport failures are wrapped and returned as-is
// so the gate can distinguish "unpaid" from "provider unreachable".
func (p *providerClient) Settle(ctx context.Context, reference string, satoshis int64, identityKey string) error {
	log := logger.FromContext(ctx)

	var result settleResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(settleRequest{
			Reference:   reference,
			Satoshis:    satoshis,
			IdentityKey: identityKey,
			Network:     p.network,
		}).
		SetResult(&result).
		Post("/v1/payments/settle")
	if err != nil {
		log.Err(err).Str("func", "*providerClient.Settle").Msg("error reaching payment provider")
		return fmt.Errorf("error reaching payment provider: %w", err)
	}

	if resp.StatusCode() == http.StatusPaymentRequired {
		return ErrPaymentNotSettled
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Msg("payment provider returned error status")
		return fmt.Errorf("payment provider returned status %d", resp.StatusCode())
	}
	if !result.Settled {
		log.Info().Str("reason", result.Reason).Msg("payment not settled")
		return ErrPaymentNotSettled
	}

	return nil
}
