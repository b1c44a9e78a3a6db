package directory

import (
	"testing"

	"github.com/warp/booking-engine/booking"
)

func flatHierarchy() []Node {
	return []Node{
		{ID: "b", Kind: KindBuilding, Name: "Building A"},
		{ID: "f2", ParentID: "b", Kind: KindFloor, Name: "Floor 02"},
		{ID: "f1", ParentID: "b", Kind: KindFloor, Name: "Floor 01"},
		{ID: "r2", ParentID: "f1", Kind: KindRoom, Name: "A-01-02"},
		{ID: "r1", ParentID: "f1", Kind: KindRoom, Name: "A-01-01"},
		{ID: "r3", ParentID: "f2", Kind: KindRoom, Name: "A-02-01"},
	}
}

func TestBuildTree(t *testing.T) {
	roots := BuildTree(flatHierarchy())
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}

	building := roots[0]
	if building.Name != "Building A" || len(building.Children) != 2 {
		t.Fatalf("unexpected root: %s with %d children", building.Name, len(building.Children))
	}

	// Children come back name-ordered regardless of input order.
	if building.Children[0].Name != "Floor 01" || building.Children[1].Name != "Floor 02" {
		t.Errorf("floors not name-ordered: %s, %s", building.Children[0].Name, building.Children[1].Name)
	}
	rooms := building.Children[0].Children
	if len(rooms) != 2 || rooms[0].Name != "A-01-01" || rooms[1].Name != "A-01-02" {
		t.Errorf("rooms not name-ordered under Floor 01: %+v", rooms)
	}
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	nodes := []Node{
		{ID: "r", ParentID: booking.ResourceID("missing"), Kind: KindRoom, Name: "Orphan"},
	}
	roots := BuildTree(nodes)
	if len(roots) != 1 || roots[0].Name != "Orphan" {
		t.Fatalf("orphan node should surface as a root, got %+v", roots)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	if roots := BuildTree(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}

func TestRooms(t *testing.T) {
	roots := BuildTree(flatHierarchy())
	rooms := roots[0].Rooms()
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms in subtree, got %d", len(rooms))
	}
	for _, r := range rooms {
		if r.Kind != KindRoom {
			t.Errorf("non-room node %s in Rooms()", r.Name)
		}
	}
}
