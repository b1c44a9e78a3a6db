/*
Package directory models the resource hierarchy: buildings contain floors,
floors contain rooms, and rooms carry the department-scoped booking configs
the engine validates against.

The hierarchy is deliberately kept outside the validation engine. Handlers
receive already-materialized subtrees (see BuildTree) and the engine only
ever sees resolved booking.ResourceConfig values, never live graph
references.

SEE ALSO:
  - tree.go:      Pure subtree materialization
  - store/sqlite: The persistent implementation of Store
*/
package directory

import (
	"context"
	"time"

	"github.com/warp/booking-engine/booking"
)

// NodeKind classifies a hierarchy node.
type NodeKind string

const (
	KindBuilding NodeKind = "building"
	KindFloor    NodeKind = "floor"
	KindRoom     NodeKind = "room"
)

// Node is one element of the resource hierarchy. Rooms are the bookable
// leaves; their IDs double as booking.ResourceID values. ParentID is empty
// for roots. Names are unique among siblings; room names (like "A-01-01")
// are unique across the whole tree so they can serve as resource names.
type Node struct {
	ID        booking.ResourceID
	ParentID  booking.ResourceID
	Kind      NodeKind
	Name      string
	CreatedAt time.Time
}

// Store is the hierarchy's persistence surface. Deleting a node cascades to
// its descendants, their scope configs, and their reservations.
type Store interface {
	CreateNode(ctx context.Context, node Node) error
	RenameNode(ctx context.Context, id booking.ResourceID, name string) error
	DeleteNode(ctx context.Context, id booking.ResourceID) error
	ListNodes(ctx context.Context) ([]Node, error)

	// PutConfig attaches a department scope to a resource. The window string
	// is validated against the grammar at attach time; a second config for
	// the same (resource, department) pair fails with ErrDuplicateScope.
	PutConfig(ctx context.Context, cfg booking.ResourceConfig) error
	ListConfigs(ctx context.Context, resourceID booking.ResourceID) ([]booking.ResourceConfig, error)
}
