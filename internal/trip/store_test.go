package trip_test

import (
	"testing"
	"time"

	"github.com/tripmapper/tripmapper/internal/notify"
	"github.com/tripmapper/tripmapper/internal/render"
	"github.com/tripmapper/tripmapper/internal/trip"
)

func newTestStore() (*trip.Store, *render.MemorySurface, *notify.Notifier) {
	surface := render.NewMemorySurface()
	notifier := notify.NewNotifier(time.Minute)
	return trip.NewStore(surface, notifier), surface, notifier
}

func TestStore_AddSpot_IDsStrictlyIncreasingFromOne(t *testing.T) {
	store, surface, notifier := newTestStore()
	defer notifier.Close()

	for want := 1; want <= 4; want++ {
		if got := store.AddSpot(35.0+float64(want), 139.0); got != want {
			t.Errorf("expected id %d, got %d", want, got)
		}
	}
	if store.Count() != 4 {
		t.Errorf("expected 4 spots, got %d", store.Count())
	}
	if surface.MarkerCount() != 4 {
		t.Errorf("expected 4 markers on surface, got %d", surface.MarkerCount())
	}

	msg := notifier.Current()
	if msg == nil || msg.Text != "Added Spot 4" {
		t.Errorf("expected notification for last added spot, got %+v", msg)
	}
}

func TestStore_RemoveSpot_IDsNotReused(t *testing.T) {
	store, surface, notifier := newTestStore()
	defer notifier.Close()

	store.AddSpot(1, 1)
	store.AddSpot(2, 2)
	store.RemoveSpot(2)

	if got := store.AddSpot(3, 3); got != 3 {
		t.Errorf("expected id 3 after removal, got %d", got)
	}
	if surface.MarkerCount() != 2 {
		t.Errorf("expected removed spot's marker released, got %d markers", surface.MarkerCount())
	}
}

func TestStore_RemoveSpot_UnknownIDIsNoOp(t *testing.T) {
	store, _, notifier := newTestStore()
	defer notifier.Close()

	store.AddSpot(1, 1)
	store.AddSpot(2, 2)
	store.RemoveSpot(99)

	spots := store.Spots()
	if len(spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(spots))
	}
	if spots[0].ID != 1 || spots[1].ID != 2 {
		t.Errorf("spot ids changed: %+v", spots)
	}
}

func TestStore_Clear_ResetsAllocator(t *testing.T) {
	store, surface, notifier := newTestStore()
	defer notifier.Close()

	store.AddSpot(1, 1)
	store.AddSpot(2, 2)
	store.RemoveSpot(1)
	store.Clear()

	if store.Count() != 0 {
		t.Errorf("expected empty store, got %d spots", store.Count())
	}
	if surface.MarkerCount() != 0 {
		t.Errorf("expected all markers released, got %d", surface.MarkerCount())
	}
	if got := store.AddSpot(5, 5); got != 1 {
		t.Errorf("expected allocator reset to 1, got %d", got)
	}
}

func TestStore_CanPlanRoute(t *testing.T) {
	store, _, notifier := newTestStore()
	defer notifier.Close()

	if store.CanPlanRoute() {
		t.Error("empty store must not allow planning")
	}
	store.AddSpot(1, 1)
	if store.CanPlanRoute() {
		t.Error("single spot must not allow planning")
	}
	id := store.AddSpot(2, 2)
	if !store.CanPlanRoute() {
		t.Error("two spots must allow planning")
	}
	store.RemoveSpot(id)
	if store.CanPlanRoute() {
		t.Error("predicate must track removals")
	}
}

func TestStore_SnapshotIsImmutableCopy(t *testing.T) {
	store, _, notifier := newTestStore()
	defer notifier.Close()

	store.AddSpot(10, 20)
	store.AddSpot(30, 40)

	snapshot := store.Snapshot()
	store.Clear()

	if len(snapshot) != 2 {
		t.Fatalf("expected snapshot of 2 waypoints, got %d", len(snapshot))
	}
	if snapshot[0].ID != 1 || snapshot[0].Coord.Lat != 10 {
		t.Errorf("snapshot lost data after store mutation: %+v", snapshot[0])
	}
	if snapshot[1].Coord.Lng != 40 {
		t.Errorf("snapshot order broken: %+v", snapshot[1])
	}
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	store, _, notifier := newTestStore()
	defer notifier.Close()

	store.AddSpot(3, 3)
	store.AddSpot(1, 1)
	store.AddSpot(2, 2)
	store.RemoveSpot(2)

	spots := store.Spots()
	if spots[0].Lat != 3 || spots[1].Lat != 2 {
		t.Errorf("insertion order not preserved: %+v", spots)
	}
}
