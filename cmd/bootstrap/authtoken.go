package bootstrap

import (
	"concert-ticket-api/internal/pkg/authtoken"
	"concert-ticket-api/internal/pkg/config"

	"go.uber.org/fx"
)

var AuthTokenModule = fx.Module("authtoken",
	fx.Provide(
		NewAuthTokenService,
	),
)

func NewAuthTokenService(cfg config.Config) *authtoken.Service {
	return authtoken.NewService(cfg.JWT.Secret)
}
