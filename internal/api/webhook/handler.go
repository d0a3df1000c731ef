package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	domain "github.com/oshokin/alert-relay/internal/domain/alert"
	"github.com/oshokin/alert-relay/internal/logger"
	"github.com/oshokin/alert-relay/internal/service/dispatcher"
)

// statusProcessed is the fixed success response body contract.
const statusProcessed = "Alerts processed"

// Dispatcher abstracts the business operation the transport layer depends on.
type Dispatcher interface {
	Dispatch(ctx context.Context, batch domain.Batch) *dispatcher.Result
}

// Handler adapts inbound webhook payloads to the dispatcher.
type Handler struct {
	// dispatcher processes parsed alert batches.
	dispatcher Dispatcher
}

// NewHandler wires the provided dispatcher into an HTTP handler.
func NewHandler(d Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

// alertPayload is the inbound wire shape of one alert.
// Optional fields are defaulted explicitly when mapped to the domain type.
type alertPayload struct {
	// Labels carries the optional team label.
	Labels struct {
		Team string `json:"team"`
	} `json:"labels"`
	// Annotations carries the optional free-text description.
	Annotations struct {
		Description string `json:"description"`
	} `json:"annotations"`
}

// batchPayload is the inbound wire shape of the webhook body.
type batchPayload struct {
	// Alerts is the ordered alert batch.
	Alerts []alertPayload `json:"alerts"`
}

// statusResponse is the fixed success response.
type statusResponse struct {
	Status string `json:"status"`
}

// errorResponse is the error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HandleAlerts accepts a webhook batch, dispatches it and reports completion.
//
// A body that does not match the expected shape is rejected with 400 and
// nothing is dispatched. Individual delivery failures do not affect the
// response: the webhook caller is only told the batch was processed.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload batchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.WarnKV(ctx, "Rejected malformed webhook body", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})

		return
	}

	batch := make(domain.Batch, 0, len(payload.Alerts))
	for _, item := range payload.Alerts {
		batch = append(batch, domain.Alert{
			Description: item.Annotations.Description,
			Team:        item.Labels.Team,
		})
	}

	h.dispatcher.Dispatch(ctx, batch)

	writeJSON(ctx, w, http.StatusOK, statusResponse{Status: statusProcessed})
}

// HandleHealth reports process liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "ok"})
}

// writeJSON encodes the response body with the provided status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorKV(ctx, "Failed to encode response", "error", err)
	}
}
