package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	"FinScore/internal/usecase"
	xhttp "FinScore/pkg/http"
	xlogger "FinScore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Engine is the scoring surface served over HTTP.
type Engine interface {
	ScanMomentum(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error)
	ScoreFundamentals(ctx context.Context, req models.ScreenRequest) (*models.ScreenResponse, error)
	ComputeIndicators(ctx context.Context, req models.IndicatorsRequest) (*models.IndicatorsResult, error)
	ListUniverses() []models.Universe
}

var _ Engine = (*usecase.Engine)(nil)

// ScoringHandler serves the scoring endpoints and, when a stream is set, the
// live scan websocket.
type ScoringHandler struct {
	logger *xlogger.Logger
	engine Engine
	stream *ScanStream
}

func NewScoringHandler(logger *xlogger.Logger, engine Engine, stream *ScanStream) *ScoringHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ScoringHandler{logger: logger, engine: engine, stream: stream}
}

func (h *ScoringHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/momentum/scan", h.Scan)
	g.GET("/momentum/scan", h.Scan)
	g.POST("/fundamentals/screen", h.Screen)
	g.GET("/fundamentals/screen", h.Screen)
	g.POST("/indicators", h.Indicators)
	g.GET("/indicators", h.Indicators)
	g.GET("/universes", h.Universes)

	if h.stream != nil {
		e.GET("/ws/scans", h.stream.Serve)
	}
}

func (h *ScoringHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if raw := c.QueryParam("symbols"); raw != "" && len(req.Symbols) == 0 {
		req.Symbols = strings.Split(raw, ",")
	}

	res, err := h.engine.ScanMomentum(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "scan", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoringHandler) Screen(c echo.Context) error {
	req := &models.ScreenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.ScoreFundamentals(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "screen", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoringHandler) Indicators(c echo.Context) error {
	start := time.Now()
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.ComputeIndicators(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "indicators", err)
	}
	h.logger.Debug("indicators served",
		xlogger.String("symbol", res.Symbol),
		xlogger.Duration("duration_ms", time.Since(start)),
	)
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoringHandler) Universes(c echo.Context) error {
	list := h.engine.ListUniverses()
	return xhttp.ListResponse(c, list, int64(len(list)))
}

var errorRules = []xhttp.ErrorRule{
	{Match: usecase.IsRequestError, New: xhttp.BadRequestError},
	{Match: xhttp.Is(domrepo.ErrNoData), New: xhttp.NotFoundError},
}

// fail maps usecase errors onto the response envelope.
func (h *ScoringHandler) fail(c echo.Context, op string, err error) error {
	if appErr := xhttp.ToAppError(err, errorRules...); appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}
	if errors.Is(err, context.Canceled) {
		h.logger.Debug(op + " canceled by client")
		return xhttp.InternalServerErrorResponse(c)
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.InternalServerErrorResponse(c)
}
