// Package calc exposes the jump computation to clients that already know the
// frame rate and the take-off and landing frames.
package calc

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/jump-backend/internal/dto"
	"github.com/eleven-am/jump-backend/internal/kinematics"
	"github.com/eleven-am/jump-backend/internal/metrics"
	"github.com/eleven-am/jump-backend/internal/report"
	"github.com/eleven-am/jump-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/kinematics", h.Compute)
}

// @Summary      Compute jump kinematics
// @Description  Computes flight time, jump height, average force and average power from a frame rate, two frame indices and a body mass
// @Tags         kinematics
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ComputeRequest  true  "Computation input"
// @Success      200  {object}  dto.AnalysisResponse
// @Failure      400  {object}  shared.APIError
// @Failure      422  {object}  shared.APIError
// @Router       /kinematics [post]
func (h *Handler) Compute(c echo.Context) error {
	var req dto.ComputeRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	res, err := kinematics.Compute(kinematics.Input{
		FrameRate:    req.FrameRate,
		TakeoffIndex: req.TakeoffIndex,
		LandingIndex: req.LandingIndex,
		MassKg:       req.MassKg,
	})
	if err != nil {
		var verr *kinematics.ValidationError
		if errors.As(err, &verr) {
			metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			return shared.NewAPIError(verr.Code(), verr.Err.Error()).
				WithDetails(dto.ValidationError{Field: verr.Field, Message: verr.Err.Error()}).
				ToHTTP(http.StatusUnprocessableEntity)
		}
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		h.logger.Error("compute failed", "error", err)
		return shared.InternalError("compute_failed", "computation failed")
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s := report.Display(res)
	return c.JSON(http.StatusOK, dto.AnalysisResponse{
		Result: dto.ResultResponse{
			FlightTime:   res.FlightTime,
			JumpHeightM:  res.JumpHeightM,
			JumpHeightCM: res.JumpHeightCM,
			AvgForceN:    res.AvgForceN,
			AvgPowerW:    res.AvgPowerW,
		},
		Display: dto.DisplayResponse{
			FlightTime: s.FlightTime,
			JumpHeight: s.JumpHeight,
			AvgForce:   s.AvgForce,
			AvgPower:   s.AvgPower,
		},
	})
}
