package components

import (
	"ticket-hold/internal/handler"
	"ticket-hold/internal/handler/api"
	"ticket-hold/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTicketHandler,
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
