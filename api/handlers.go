/*
handlers.go - HTTP API handlers for the booking engine

PURPOSE:
  Exposes the booking engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the engine and the directory store.

ENDPOINTS:
  Reservations:
    POST   /api/reservations           Submit a reservation
    GET    /api/reservations           List reservations (newest first)
    DELETE /api/reservations/{id}      Remove a reservation

  Resources:
    GET    /api/resources/tree         Materialized hierarchy
    POST   /api/resources              Create a node
    PUT    /api/resources/{id}         Rename a node
    DELETE /api/resources/{id}         Delete a node (cascades)
    GET    /api/resources/{id}/configs List department scopes
    POST   /api/resources/{id}/configs Attach a department scope

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

ERROR HANDLING:
  Validation failures map to HTTP status by taxonomy, not per-endpoint:
  - 400: Malformed request body or timestamps
  - 404: Unknown scope, missing resource/reservation
  - 409: Slot conflict (retryable by resubmission), duplicate scope
  - 422: Business-rule rejections (interval, capacity, window)
  - 500: Infrastructure failures (never masked as business outcomes)

SEE ALSO:
  - dto.go:    Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/booking-engine/booking"
	"github.com/warp/booking-engine/directory"
	"github.com/warp/booking-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *booking.Service
}

// NewHandler creates a handler over the given store. The store serves as
// both the resource directory and the reservation store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Service: booking.NewService(store, store),
	}
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// SubmitReservation validates and books a reservation.
func (h *Handler) SubmitReservation(w http.ResponseWriter, r *http.Request) {
	var req SubmitReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_at must be RFC3339", err)
		return
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_at must be RFC3339", err)
		return
	}
	if req.AttendeeCount <= 0 {
		writeError(w, http.StatusBadRequest, "attendee_count must be positive", nil)
		return
	}

	res, err := h.Service.Submit(r.Context(), booking.Request{
		ResourceName:  req.Resource,
		Department:    req.Department,
		AttendeeCount: req.AttendeeCount,
		StartAt:       startAt,
		EndAt:         endAt,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReservationDTO(*res))
}

// ListReservations returns reservations, newest first. Supports ?resource=,
// ?page= and ?per_page=.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	perPage := queryInt(r, "per_page", 50)
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	filter := booking.ListFilter{
		ResourceName: r.URL.Query().Get("resource"),
		Limit:        perPage,
		Offset:       (page - 1) * perPage,
	}

	reservations, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reservations", err)
		return
	}

	dtos := make([]ReservationDTO, len(reservations))
	for i, res := range reservations {
		dtos[i] = toReservationDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteReservation removes a reservation by ID.
func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteReservation(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESOURCE HANDLERS
// =============================================================================

// GetResourceTree returns the materialized hierarchy.
func (h *Handler) GetResourceTree(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.Store.ListNodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list resources", err)
		return
	}
	writeJSON(w, http.StatusOK, toTreeDTO(directory.BuildTree(nodes)))
}

// CreateResource adds a hierarchy node.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	kind := directory.NodeKind(req.Kind)
	switch kind {
	case directory.KindBuilding, directory.KindFloor, directory.KindRoom:
	default:
		writeError(w, http.StatusBadRequest, "kind must be building, floor or room", nil)
		return
	}

	node := directory.Node{
		ID:        booking.ResourceID(uuid.NewString()),
		ParentID:  booking.ResourceID(req.ParentID),
		Kind:      kind,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateNode(r.Context(), node); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, NodeDTO{
		ID:       string(node.ID),
		ParentID: string(node.ParentID),
		Kind:     string(node.Kind),
		Name:     node.Name,
	})
}

// RenameResource renames a hierarchy node.
func (h *Handler) RenameResource(w http.ResponseWriter, r *http.Request) {
	var req RenameNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	id := booking.ResourceID(chi.URLParam(r, "id"))
	if err := h.Store.RenameNode(r.Context(), id, req.Name); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteResource removes a node and everything beneath it.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := booking.ResourceID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteNode(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListConfigs returns the department scopes attached to a resource.
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	id := booking.ResourceID(chi.URLParam(r, "id"))
	configs, err := h.Store.ListConfigs(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list configs", err)
		return
	}

	dtos := make([]ConfigDTO, len(configs))
	for i, c := range configs {
		dtos[i] = toConfigDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AttachConfig attaches a department scope to a resource.
func (h *Handler) AttachConfig(w http.ResponseWriter, r *http.Request) {
	var req AttachConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Department == "" {
		writeError(w, http.StatusBadRequest, "department is required", nil)
		return
	}
	if req.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "capacity must be positive", nil)
		return
	}

	cfg := booking.ResourceConfig{
		ResourceID:         booking.ResourceID(chi.URLParam(r, "id")),
		Department:         req.Department,
		Capacity:           req.Capacity,
		AvailabilityWindow: req.AvailabilityWindow,
	}
	if err := h.Store.PutConfig(r.Context(), cfg); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConfigDTO(cfg))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := ErrorDTO{Error: msg}
	if err != nil {
		body.Detail = err.Error()
	}
	writeJSON(w, status, body)
}

// writeFailure maps a booking failure to an HTTP status and kind. Errors
// outside the booking taxonomy are infrastructure failures and come back as
// 500 without their internals.
func writeFailure(w http.ResponseWriter, err error) {
	kind, status := classify(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		writeJSON(w, status, ErrorDTO{Error: "Internal server error"})
		return
	}
	writeJSON(w, status, ErrorDTO{Error: err.Error(), Kind: kind})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, booking.ErrSlotConflict):
		return "slot_conflict", http.StatusConflict
	case errors.Is(err, booking.ErrDuplicateScope):
		return "duplicate_scope", http.StatusConflict
	case errors.Is(err, booking.ErrInvalidInterval):
		return "invalid_interval", http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrCapacityExceeded):
		return "capacity_exceeded", http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrOutsideWindow):
		return "outside_window", http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrMalformedWindow):
		return "malformed_window", http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrUnknownScope):
		return "unknown_scope", http.StatusNotFound
	case errors.Is(err, booking.ErrResourceNotFound):
		return "resource_not_found", http.StatusNotFound
	case errors.Is(err, booking.ErrReservationNotFound):
		return "reservation_not_found", http.StatusNotFound
	default:
		return "", http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
