package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eleven-am/jump-backend/internal/dto"
	"github.com/eleven-am/jump-backend/internal/kinematics"
	"github.com/eleven-am/jump-backend/internal/report"
	"github.com/eleven-am/jump-backend/internal/shared"
	"github.com/eleven-am/jump-backend/internal/video"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service     *Service
	guard       *Guard
	jpegQuality int
	logger      *slog.Logger
}

func NewHandler(service *Service, guard *Guard, jpegQuality int, logger *slog.Logger) *Handler {
	return &Handler{
		service:     service,
		guard:       guard,
		jpegQuality: jpegQuality,
		logger:      logger,
	}
}

// RegisterRoutes mounts the session API on g. upload wraps only the video
// upload route.
func (h *Handler) RegisterRoutes(g *echo.Group, upload ...echo.MiddlewareFunc) {
	g.POST("", h.Create, upload...)
	g.GET("/:id", h.Get)
	g.PUT("/:id/athlete", h.UpdateAthlete)
	g.PUT("/:id/selection", h.UpdateSelection)
	g.GET("/:id/video", h.Video)
	g.GET("/:id/frames/:index", h.Frame)
	g.POST("/:id/analysis", h.Analyze)
	g.GET("/:id/report", h.Report)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) owned(c echo.Context) (string, error) {
	id := c.Param("id")
	if !shared.ValidID(IDPrefix, id) {
		return "", shared.NotFound("session_not_found", "session not found")
	}
	if err := h.guard.Verify(c, id); err != nil {
		return "", shared.Forbidden("not_owner", "session belongs to another client")
	}
	return id, nil
}

func (h *Handler) toResponse(sess *Session) dto.SessionResponse {
	base := routePrefix + sess.ID
	resp := dto.SessionResponse{
		ID:       sess.ID,
		Status:   string(sess.Status),
		VideoURL: base + "/video",
		Video: dto.VideoResponse{
			Name:       sess.VideoName,
			FrameCount: sess.Metadata.FrameCount,
			FrameRate:  sess.Metadata.FrameRate,
			LastIndex:  sess.Metadata.LastIndex(),
		},
		Athlete: dto.AthleteResponse{
			Name:     sess.Athlete.Name,
			HeightCM: sess.Athlete.HeightCM,
			WeightKg: sess.Athlete.WeightKg,
		},
		Selection: dto.SelectionResponse{
			TakeoffIndex: sess.Selection.TakeoffIndex,
			LandingIndex: sess.Selection.LandingIndex,
			TakeoffFrame: base + "/frames/" + strconv.Itoa(sess.Selection.TakeoffIndex),
			LandingFrame: base + "/frames/" + strconv.Itoa(sess.Selection.LandingIndex),
		},
		CreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: sess.UpdatedAt.Add(h.service.TTL()).UTC().Format(time.RFC3339),
	}
	if sess.Status == StatusAnalyzed {
		resp.ReportURL = base + "/report"
	}
	return resp
}

func (h *Handler) mapError(err error, id string) error {
	var httpErr *echo.HTTPError
	var verr *kinematics.ValidationError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, shared.ErrNotFound):
		return shared.NotFound("session_not_found", "session not found")
	case errors.Is(err, ErrClosed):
		return shared.Conflict("session_closed", "session is closed")
	case errors.Is(err, ErrNotAnalyzed):
		return shared.Conflict("not_analyzed", "run the analysis before downloading the report")
	case errors.Is(err, ErrInvalidAthlete):
		return shared.BadRequest("invalid_athlete", err.Error())
	case errors.Is(err, ErrSelectionOutOfRange):
		return shared.BadRequest("invalid_selection", err.Error())
	case errors.Is(err, video.ErrUnsupportedFormat):
		return shared.UnsupportedMedia("unsupported_format", err.Error())
	case errors.Is(err, ErrUnreadableVideo):
		return shared.Unprocessable("unreadable_video", err.Error())
	case errors.Is(err, video.ErrFrameUnavailable):
		return shared.NotFound("frame_unavailable", "frame preview unavailable")
	case errors.As(err, &verr):
		return shared.NewAPIError(verr.Code(), verr.Err.Error()).
			WithDetails(dto.ValidationError{Field: verr.Field, Message: verr.Err.Error()}).
			ToHTTP(http.StatusUnprocessableEntity)
	default:
		h.logger.Error("session request failed", "error", err, "session_id", id)
		return shared.InternalError("internal_error", "internal error")
	}
}

// @Summary      Upload a jump video
// @Description  Stores the video, reads its frame count and frame rate and opens an analysis session
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        video  formData  file  true  "Jump video (mp4, mov, m4v, avi, webm, mkv, ivf)"
// @Success      201  {object}  dto.SessionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      413  {object}  shared.APIError
// @Failure      415  {object}  shared.APIError
// @Failure      422  {object}  shared.APIError
// @Failure      429  {object}  shared.APIError
// @Router       /sessions [post]
func (h *Handler) Create(c echo.Context) error {
	fh, err := c.FormFile("video")
	if err != nil {
		var httpErr *echo.HTTPError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr),
			errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge:
			return shared.TooLarge("video_too_large", "uploaded video exceeds the size limit")
		case httpErr != nil:
			return httpErr
		}
		return shared.BadRequest("missing_video", "multipart field 'video' is required")
	}

	src, err := fh.Open()
	if err != nil {
		return shared.BadRequest("invalid_upload", "could not read uploaded video")
	}
	defer src.Close()

	sess, err := h.service.Open(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return h.mapError(err, "")
	}

	h.guard.Grant(c, sess.ID)
	return c.JSON(http.StatusCreated, h.toResponse(sess))
}

// @Summary      Get session
// @Description  Returns the video metadata, athlete, frame selection and status of a session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  dto.SessionResponse
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	sess, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err, id)
	}
	return c.JSON(http.StatusOK, h.toResponse(sess))
}

// @Summary      Update athlete
// @Description  Sets the athlete name, height and weight. Clears any previous analysis.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Session ID"
// @Param        request  body      dto.AthleteRequest  true  "Athlete"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Router       /sessions/{id}/athlete [put]
func (h *Handler) UpdateAthlete(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	var req dto.AthleteRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	sess, err := h.service.UpdateAthlete(c.Request().Context(), id, Athlete{
		Name:     req.Name,
		HeightCM: req.HeightCM,
		WeightKg: req.WeightKg,
	})
	if err != nil {
		return h.mapError(err, id)
	}
	return c.JSON(http.StatusOK, h.toResponse(sess))
}

// @Summary      Update frame selection
// @Description  Sets the take-off and landing frame indices. Both must lie inside the clip; their order is checked by the analysis.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Session ID"
// @Param        request  body      dto.SelectionRequest  true  "Frame selection"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Router       /sessions/{id}/selection [put]
func (h *Handler) UpdateSelection(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	var req dto.SelectionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	sess, err := h.service.UpdateSelection(c.Request().Context(), id, Selection{
		TakeoffIndex: req.TakeoffIndex,
		LandingIndex: req.LandingIndex,
	})
	if err != nil {
		return h.mapError(err, id)
	}
	return c.JSON(http.StatusOK, h.toResponse(sess))
}

// @Summary      Session video
// @Description  Streams the uploaded video for playback
// @Tags         sessions
// @Produce      octet-stream
// @Param        id   path      string  true  "Session ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/video [get]
func (h *Handler) Video(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	path, err := h.service.VideoPath(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err, id)
	}
	return c.File(path)
}

// @Summary      Frame preview
// @Description  Returns one frame of the session video as JPEG
// @Tags         sessions
// @Produce      jpeg
// @Param        id     path      string  true  "Session ID"
// @Param        index  path      int     true  "Frame index"
// @Success      200  {file}    binary
// @Failure      400  {object}  shared.APIError
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/frames/{index} [get]
func (h *Handler) Frame(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return shared.BadRequest("invalid_index", "frame index must be an integer")
	}

	img, err := h.service.Preview(c.Request().Context(), id, index)
	if err != nil {
		return h.mapError(err, id)
	}

	data, err := video.EncodeJPEG(img, h.jpegQuality)
	if err != nil {
		h.logger.Warn("encode preview failed", "error", err, "session_id", id, "index", index)
		return shared.NotFound("frame_unavailable", "frame preview unavailable")
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// @Summary      Analyze jump
// @Description  Computes flight time, jump height, average force and average power from the current selection and renders the PDF report
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  dto.AnalysisResponse
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Failure      422  {object}  shared.APIError
// @Router       /sessions/{id}/analysis [post]
func (h *Handler) Analyze(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	a, err := h.service.Analyze(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err, id)
	}

	return c.JSON(http.StatusOK, dto.AnalysisResponse{
		SessionID: id,
		Result:    resultResponse(a.Result),
		Display:   displayResponse(a.Summary),
		ReportURL: routePrefix + id + "/report",
	})
}

// @Summary      Download report
// @Description  Downloads the PDF report once. The session and its files are released afterwards.
// @Tags         sessions
// @Produce      application/pdf
// @Param        id   path      string  true  "Session ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Router       /sessions/{id}/report [get]
func (h *Handler) Report(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	rf, err := h.service.Report(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err, id)
	}
	defer func() {
		if err := rf.Close(); err != nil {
			h.logger.Error("release session after download failed", "error", err, "session_id", id)
		}
	}()

	h.guard.Revoke(c, id)
	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", rf.Name))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(rf.Size, 10))
	return c.Stream(http.StatusOK, "application/pdf", rf)
}

// @Summary      Close session
// @Description  Releases the uploaded video, the report and the session state
// @Tags         sessions
// @Param        id   path      string  true  "Session ID"
// @Success      204  "No Content"
// @Failure      403  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id} [delete]
func (h *Handler) Delete(c echo.Context) error {
	id, err := h.owned(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Request().Context(), id); err != nil {
		return h.mapError(err, id)
	}

	h.guard.Revoke(c, id)
	return c.NoContent(http.StatusNoContent)
}

func resultResponse(r kinematics.Result) dto.ResultResponse {
	return dto.ResultResponse{
		FlightTime:   r.FlightTime,
		JumpHeightM:  r.JumpHeightM,
		JumpHeightCM: r.JumpHeightCM,
		AvgForceN:    r.AvgForceN,
		AvgPowerW:    r.AvgPowerW,
	}
}

func displayResponse(s report.Summary) dto.DisplayResponse {
	return dto.DisplayResponse{
		FlightTime: s.FlightTime,
		JumpHeight: s.JumpHeight,
		AvgForce:   s.AvgForce,
		AvgPower:   s.AvgPower,
	}
}
