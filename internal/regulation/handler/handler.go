package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"regwatch/internal/regulation/models"
	"regwatch/pkg/domain"
	dErrors "regwatch/pkg/domain-errors"
	"regwatch/pkg/platform/httputil"
	authmw "regwatch/pkg/platform/middleware/auth"
	"regwatch/pkg/platform/middleware/metadata"
)

// Service defines the interface for regulation operations.
type Service interface {
	List(ctx context.Context, q models.ListQuery) (models.ListResult, error)
	Get(ctx context.Context, id string) (domain.Regulation, error)
	UpdateStatus(ctx context.Context, change models.StatusChange) error
	Stats(ctx context.Context) (domain.StatusCounts, error)
}

// Handler wires regulation endpoints to the regulation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a regulation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts regulation endpoints on the router. Reads are public;
// status updates go through the supplied auth middleware.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/regulations", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/stats", h.HandleStats)
		r.Get("/{id}", h.HandleGet)
		r.With(requireAuth).Put("/{id}/status", h.HandleUpdateStatus)
	})
}

// HandleList handles GET /api/regulations requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	q := models.ListQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	if page := r.URL.Query().Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "page must be an integer"))
			return
		}
		q.Page = n
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		q.Limit = n
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "regulation list failed",
			"request_id", middleware.GetReqID(ctx),
			"status", q.Status,
			"search", q.Search,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "regulations listed",
		"request_id", middleware.GetReqID(ctx),
		"status", q.Status,
		"total", result.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromListResult(result))
}

// HandleGet handles GET /api/regulations/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	reg, err := h.service.Get(ctx, id)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "regulation load failed",
				"request_id", middleware.GetReqID(ctx),
				"regulation_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRegulation(reg))
}

// HandleStats handles GET /api/regulations/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "regulation stats failed",
			"request_id", middleware.GetReqID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromStatusCounts(counts))
}

// HandleUpdateStatus handles PUT /api/regulations/{id}/status requests.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	start := time.Now()

	req, ok := httputil.DecodeJSON[UpdateStatusRequest](w, r, h.logger)
	if !ok {
		return
	}

	change := models.StatusChange{
		RegulationID: id,
		NewStatus:    req.ParsedStatus(),
		Comment:      req.Comment,
		Actor:        authmw.GetUserID(ctx),
		SourceIP:     metadata.GetClientIP(ctx),
	}

	if err := h.service.UpdateStatus(ctx, change); err != nil {
		h.logger.WarnContext(ctx, "status update rejected",
			"request_id", middleware.GetReqID(ctx),
			"regulation_id", id,
			"new_status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	reg, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "regulation status updated",
		"request_id", middleware.GetReqID(ctx),
		"regulation_id", id,
		"new_status", req.Status,
		"actor", change.Actor,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRegulation(reg))
}
