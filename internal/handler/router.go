package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticket-hold/internal/handler/api"
	"ticket-hold/internal/handler/middleware"
	"ticket-hold/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, ticketHandler *api.TicketHandler, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, ticketHandler, reservationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, ticketHandler *api.TicketHandler, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		tickets := apiGroup.Group("/tickets")
		{
			addRoutes(tickets, []route{
				{Method: http.MethodPost, Path: "", Handler: ticketHandler.CreateTicket},
				{Method: http.MethodGet, Path: "", Handler: ticketHandler.GetClientTickets},
				{Method: http.MethodGet, Path: "/:id", Handler: ticketHandler.GetTicket},
				{Method: http.MethodDelete, Path: "/:id", Handler: ticketHandler.CancelTicket},
			})
		}

		reservations := apiGroup.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPut, Path: "/:id/confirm", Handler: reservationHandler.ConfirmReservation},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.CancelReservation},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/zones/:id", Handler: ticketHandler.GetZone},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
