package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/pubsub"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view/components"
	"github.com/nfrund/insightboard/internal/view/pages"
)

// ConfirmHandler confirms pending prompts and queues them for analysis.
//
// Each request runs the confirmation once. While one confirmation for a
// (user, prompt) pair is in flight, duplicates are answered with 409 and a
// busy button, so a double click can never confirm twice.
type ConfirmHandler struct {
	repo     domain.DashboardRepository
	pub      pubsub.Publisher
	renderer rendering.Renderer

	inflight sync.Map
}

// NewConfirmHandler creates a new ConfirmHandler.
func NewConfirmHandler(repo domain.DashboardRepository, pub pubsub.Publisher, renderer rendering.Renderer) *ConfirmHandler {
	return &ConfirmHandler{repo: repo, pub: pub, renderer: renderer}
}

// Confirm handles POST /app/dashboard/prompts/:id/confirm and responds with the re-rendered button.
func (h *ConfirmHandler) Confirm(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing prompt id")
	}
	user := middleware.CurrentUser(c)
	props := components.ConfirmProps{ID: pages.ConfirmButtonID(id), Action: pages.ConfirmAction(id)}

	key := user.IDString() + "|" + id
	if _, busy := h.inflight.LoadOrStore(key, struct{}{}); busy {
		props.IsConfirming = true
		return h.renderer.RenderPage(c, http.StatusConflict, components.ConfirmButton(props))
	}
	defer h.inflight.Delete(key)

	log := middleware.FromContext(c.Request().Context())
	ctx := c.Request().Context()

	prompt, err := h.repo.ConfirmPrompt(ctx, user.IDString(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "prompt not found").SetInternal(err)
		}
		log.Error("Failed to confirm prompt", "prompt_id", id, "error", err)
		// The button stays enabled so the user can retry.
		return h.renderer.RenderPage(c, http.StatusInternalServerError, components.ConfirmButton(props))
	}

	job := domain.AnalysisJob{
		JobID:       uuid.NewString(),
		PromptID:    id,
		RequestedBy: user.IDString(),
		Source:      domain.AnalysisSourceConfirm,
		RequestedAt: time.Now().UTC(),
	}
	if err := pubsub.PublishJSON(ctx, h.pub, pubsub.TopicAnalysisRequested, user.IDString(), job); err != nil {
		// The prompt is confirmed either way; analysis can be requested again later.
		log.Warn("Failed to queue analysis", "prompt_id", id, "error", err)
	}

	log.Info("Prompt confirmed", "prompt_id", id, "status", prompt.Status, "job_id", job.JobID)
	props.Disabled = prompt.Status == domain.PromptConfirmed
	return h.renderer.RenderPage(c, http.StatusOK, components.ConfirmButton(props))
}
