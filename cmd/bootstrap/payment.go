package bootstrap

import (
	"concert-ticket-api/internal/infra/payment"
	"concert-ticket-api/internal/pkg/config"
	"concert-ticket-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewPaymentGateway,
	),
)

func NewPaymentGateway(cfg config.Config) shared.PaymentGateway {
	return payment.NewGateway(cfg.Payment)
}
