package components

import (
	"concert-ticket-api/internal/handler"
	"concert-ticket-api/internal/handler/api"
	"concert-ticket-api/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewConcertHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
