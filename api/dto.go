/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Field-shape validation (presence, parseability) happens in handlers;
  business validation belongs to the booking engine. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/booking-engine/booking"
	"github.com/warp/booking-engine/directory"
)

// =============================================================================
// RESERVATIONS
// =============================================================================

// SubmitReservationRequest is the request to book a resource.
type SubmitReservationRequest struct {
	Resource      string `json:"resource"`
	Department    string `json:"department"`
	AttendeeCount int    `json:"attendee_count"`
	StartAt       string `json:"start_at"` // RFC3339
	EndAt         string `json:"end_at"`   // RFC3339
}

// ReservationDTO represents a committed reservation.
type ReservationDTO struct {
	ID            string `json:"id"`
	ResourceID    string `json:"resource_id"`
	Department    string `json:"department"`
	AttendeeCount int    `json:"attendee_count"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	CreatedAt     string `json:"created_at"`
}

func toReservationDTO(r booking.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:            string(r.ID),
		ResourceID:    string(r.ResourceID),
		Department:    r.Department,
		AttendeeCount: r.AttendeeCount,
		StartAt:       r.StartAt.Format(time.RFC3339),
		EndAt:         r.EndAt.Format(time.RFC3339),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// RESOURCE HIERARCHY
// =============================================================================

// CreateNodeRequest is the request to add a hierarchy node.
type CreateNodeRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
}

// RenameNodeRequest is the request to rename a hierarchy node.
type RenameNodeRequest struct {
	Name string `json:"name"`
}

// NodeDTO represents a hierarchy node, optionally with children.
type NodeDTO struct {
	ID       string    `json:"id"`
	ParentID string    `json:"parent_id,omitempty"`
	Kind     string    `json:"kind"`
	Name     string    `json:"name"`
	Children []NodeDTO `json:"children,omitempty"`
}

func toTreeDTO(nodes []*directory.TreeNode) []NodeDTO {
	dtos := make([]NodeDTO, len(nodes))
	for i, n := range nodes {
		dtos[i] = NodeDTO{
			ID:       string(n.ID),
			ParentID: string(n.ParentID),
			Kind:     string(n.Kind),
			Name:     n.Name,
			Children: toTreeDTO(n.Children),
		}
	}
	return dtos
}

// AttachConfigRequest is the request to attach a department scope to a
// resource.
type AttachConfigRequest struct {
	Department         string `json:"department"`
	Capacity           int    `json:"capacity"`
	AvailabilityWindow string `json:"availability_window,omitempty"`
}

// ConfigDTO represents a department scope config.
type ConfigDTO struct {
	ResourceID         string `json:"resource_id"`
	Department         string `json:"department"`
	Capacity           int    `json:"capacity"`
	AvailabilityWindow string `json:"availability_window,omitempty"`
}

func toConfigDTO(c booking.ResourceConfig) ConfigDTO {
	return ConfigDTO{
		ResourceID:         string(c.ResourceID),
		Department:         c.Department,
		Capacity:           c.Capacity,
		AvailabilityWindow: c.AvailabilityWindow,
	}
}

// =============================================================================
// ERRORS & SCENARIOS
// =============================================================================

// ErrorDTO is the uniform error body. Kind carries the machine-readable
// failure class; Detail is human-readable.
type ErrorDTO struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}
