package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/david/salesforce-mock/internal/models"
	"github.com/david/salesforce-mock/internal/query"
)

type Server struct {
	Engine *query.Engine
	Echo   *echo.Echo
	Logger *zap.Logger
}

// Options tune the HTTP surface. Zero values fall back to defaults.
type Options struct {
	AllowOrigins []string
}

func NewServer(engine *query.Engine, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newQueryValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))

	allowOrigins := opts.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	// Wide open: any origin, method and header, credentials included.
	cors := middleware.CORSConfig{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}
	cors.UnsafeWildcardOriginWithAllowCredentials = true
	e.Use(middleware.CORSWithConfig(cors))

	s := &Server{
		Engine: engine,
		Echo:   e,
		Logger: logger,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/salesforce")
	api.GET("/opportunity/:opportunityNumber", s.handleGetOpportunity)
	api.GET("/opportunities", s.handleListOpportunities)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("op", "api.request"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// handleGetOpportunity always answers 200; a miss is reported in the envelope.
func (s *Server) handleGetOpportunity(c echo.Context) error {
	id := c.Param("opportunityNumber")

	res, err := s.Engine.Lookup(c.Request().Context(), id)
	if err != nil {
		s.Logger.Warn("lookup aborted",
			zap.String("op", "api.handleGetOpportunity"),
			zap.String("opportunity_number", id),
			zap.Error(err),
		)
		return err
	}

	return c.JSON(http.StatusOK, toAPIResponse(res))
}

// handleListOpportunities returns a bare array, without an envelope or paging
// metadata. Callers detect the last page by receiving fewer than limit items.
func (s *Server) handleListOpportunities(c echo.Context) error {
	params, details := parseListParams(c)
	if len(details) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, validationResponse{Detail: details})
	}

	items := s.Engine.List(params)
	s.Logger.Debug("listed opportunities",
		zap.String("op", "api.handleListOpportunities"),
		zap.Int("page", params.Page),
		zap.Int("limit", params.Limit),
		zap.String("status", params.Status),
		zap.String("client", params.Client),
		zap.Int("returned", len(items)),
	)
	return c.JSON(http.StatusOK, items)
}

func toAPIResponse(res query.Result) models.APIResponse {
	if !res.Found {
		msg := models.NotFoundMessage
		return models.APIResponse{Success: false, Message: &msg}
	}
	rec := res.Opportunity
	return models.APIResponse{Success: true, Data: &rec}
}
