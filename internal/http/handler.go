package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgonzalez/nutrify/internal/domain"
	"github.com/dgonzalez/nutrify/internal/metrics"
	"github.com/dgonzalez/nutrify/internal/observability"
)

// userSafeError is what clients see when the pipeline fails. Full detail is
// logged internally, never returned.
const userSafeError = "could not generate the plan, please try again"

// Handler handles HTTP requests.
type Handler struct {
	planner *domain.PlannerService
	metrics *metrics.Store
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(planner *domain.PlannerService, metricsStore *metrics.Store) *Handler {
	return &Handler{
		planner: planner,
		metrics: metricsStore,
	}
}

type dietResponse struct {
	Success bool        `json:"success"`
	Plan    domain.Plan `json:"plan,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HandleGenerateDiet processes diet-generation requests.
func (h *Handler) HandleGenerateDiet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Early validation.
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.DietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, dietResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("diet generation request received",
		observability.Int("calories", int(req.Calories)),
		observability.Int("meals_per_day", req.MealsPerDay),
		observability.String("goal", req.Goal),
	)

	plan, err := h.planner.GeneratePlan(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, dietResponse{
		Success: true,
		Plan:    plan,
	})
}

// writeError maps pipeline failures to statuses. Validation messages are
// safe to echo; everything else gets the generic message and full detail
// goes to the log only.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		logger.Warn("request validation failed", observability.Error(err))
		writeJSON(ctx, w, http.StatusBadRequest, dietResponse{
			Success: false,
			Error:   ve.Error(),
		})
		return
	}

	logger.Error("diet generation failed", observability.Error(err))

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrNetworkFailure),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrInvalidPlanFormat):
		status = http.StatusBadGateway
	}

	writeJSON(ctx, w, status, dietResponse{
		Success: false,
		Error:   userSafeError,
	})
}

// HandleUsageMetrics returns the current usage statistics snapshot.
func (h *Handler) HandleUsageMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, h.metrics.Snapshot())
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}
