package analysis

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/pubsub"
)

// StatusQueued is reported for accepted jobs.
const StatusQueued = "queued"

// Request is the function's input.
type Request struct {
	ResponseID string `json:"response_id" validate:"required"`
}

// Response is returned for accepted jobs.
type Response struct {
	JobID      string `json:"job_id"`
	ResponseID string `json:"response_id"`
	Status     string `json:"status"`
}

// ErrorResponse is the standard format for function error responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler is the analyze-response function. Request in, response out.
type Handler struct {
	loader   ResponseLoader
	verifier *TokenVerifier
	pub      pubsub.Publisher
	opts     ClientOptions
	validate *validator.Validate
}

// NewHandler creates the function handler.
func NewHandler(loader ResponseLoader, verifier *TokenVerifier, pub pubsub.Publisher, opts ClientOptions) *Handler {
	return &Handler{
		loader:   loader,
		verifier: verifier,
		pub:      pub,
		opts:     opts,
		validate: validator.New(),
	}
}

// Handle serves POST /functions/v1/analyze-response.
func (h *Handler) Handle(c echo.Context) error {
	log := middleware.FromContext(c.Request().Context())

	claims, err := h.verifier.Parse(h.bearer(c))
	if err != nil {
		log.Info("Analysis request rejected", "reason", err)
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Message: "missing or invalid bearer token"})
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "request body must be JSON"})
	}
	req.ResponseID = strings.TrimSpace(req.ResponseID)
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "response_id is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.loader.GetResponse(ctx, req.ResponseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Code: "not_found", Message: "response not found"})
		}
		log.Error("Failed to load response for analysis", "response_id", req.ResponseID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Code: "upstream", Message: "could not load response"})
	}

	job := domain.AnalysisJob{
		JobID:       uuid.NewString(),
		ResponseID:  req.ResponseID,
		RequestedBy: claims.Subject,
		Source:      domain.AnalysisSourceFunction,
		RequestedAt: time.Now().UTC(),
	}
	if err := pubsub.PublishJSON(ctx, h.pub, pubsub.TopicAnalysisRequested, claims.Subject, job); err != nil {
		log.Error("Failed to queue analysis", "response_id", req.ResponseID, "error", err)
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Code: "unavailable", Message: "could not queue analysis"})
	}

	log.Info("Analysis queued", "job_id", job.JobID, "response_id", job.ResponseID, "subject", claims.Subject)
	return c.JSON(http.StatusAccepted, Response{JobID: job.JobID, ResponseID: job.ResponseID, Status: StatusQueued})
}

func (h *Handler) bearer(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if h.opts.DetectSessionInURL {
		return c.QueryParam("access_token")
	}
	return ""
}
