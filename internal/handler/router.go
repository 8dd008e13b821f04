package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Reservation  *api.ReservationHandler
	Availability *api.AvailabilityHandler
	Inventory    *api.InventoryHandler
	Payment      *api.PaymentHandler
	Jobs         *api.JobsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, logger *slog.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.Tracing())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// authenticated by shared secret, not a bearer token
		addRoutes(apiGroup.Group("/webhooks"), []route{
			{Method: http.MethodPost, Path: "/payments", Handler: h.Payment.Webhook},
		})

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservation.Get},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Reservation.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Reservation.Delete},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservation.Cancel},
				{Method: http.MethodPost, Path: "/:id/payments", Handler: h.Payment.Initiate},
			})
		}

		catalog := apiGroup.Group("")
		catalog.Use(authMiddleware.RequireAuth())
		{
			addRoutes(catalog, []route{
				{Method: http.MethodGet, Path: "/availability", Handler: h.Availability.Check},
				{Method: http.MethodGet, Path: "/items/:kind/:id", Handler: h.Availability.GetItem},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/excursions", Handler: h.Inventory.CreateExcursion},
				{Method: http.MethodPost, Path: "/flights", Handler: h.Inventory.CreateFlight},
				{Method: http.MethodPost, Path: "/rooms", Handler: h.Inventory.CreateRoom},
				{Method: http.MethodPut, Path: "/items/:kind/:id/capacity", Handler: h.Inventory.AdjustCapacity},
				{Method: http.MethodPut, Path: "/items/:kind/:id/status", Handler: h.Inventory.ChangeStatus},
				{Method: http.MethodGet, Path: "/jobs", Handler: h.Jobs.List},
				{Method: http.MethodPost, Path: "/jobs/:name/run", Handler: h.Jobs.Run},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
