// Package api is the HTTP transport: the operation endpoint, the REST routes
// and the operational endpoints, all on gin.
package api

import (
	"context"
	"net/http"
	"time"

	_ "github.com/Domenick1991/flightbooking/docs"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Executor     Executor
	Flights      flights.FlightUseCase
	Resolver     *auth.Resolver
	Logger       logging.Logger
	Metrics      *metrics.Metrics
	HealthChecks map[string]HealthCheck
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestID(),
		RequestLogger(deps.Logger, deps.Metrics),
		CORS(),
		Identity(deps.Resolver),
	)

	router.GET("/healthz", healthHandler(deps.HealthChecks))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	NewOperationHandler(deps.Executor).Register(router)

	v1 := router.Group("/api/v1")
	NewFlightHandler(deps.Executor, deps.Flights).Register(v1.Group("/flights"))
	NewUserHandler(deps.Executor).Register(v1.Group("/users"), v1.Group("/auth"))
	NewBookingHandler(deps.Executor).Register(v1.Group("/bookings"))

	return router
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler godoc
//
//	@Summary	Liveness and dependency health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse
//	@Router		/healthz [get]
func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		c.JSON(status, resp)
	}
}
