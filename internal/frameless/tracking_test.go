package frameless

import (
	"errors"
	"testing"

	"github.com/1broseidon/chromeless/internal/platform"
)

func TestEnableTrackingVisitsAllDescendants(t *testing.T) {
	leaf1 := &fakeControl{id: 4}
	leaf2 := &fakeControl{id: 5}
	mid := &fakeControl{id: 3, children: []platform.Control{leaf1, leaf2}}
	other := &fakeControl{id: 2}
	root := &fakeControl{id: 1, children: []platform.Control{mid, other}}

	n, err := EnableTracking(root)
	if err != nil {
		t.Fatalf("EnableTracking: %v", err)
	}
	if n != 5 {
		t.Fatalf("visited %d controls, want 5", n)
	}
	for _, c := range []*fakeControl{root, mid, other, leaf1, leaf2} {
		if !c.trackingActive {
			t.Fatalf("control %d not tracking", c.id)
		}
	}
}

func TestEnableTrackingDeepChain(t *testing.T) {
	const depth = 100000
	controls := make([]*fakeControl, depth)
	for i := depth - 1; i >= 0; i-- {
		controls[i] = &fakeControl{id: platform.ControlID(i + 1)}
		if i+1 < depth {
			controls[i].children = []platform.Control{controls[i+1]}
		}
	}

	n, err := EnableTracking(controls[0])
	if err != nil {
		t.Fatalf("EnableTracking: %v", err)
	}
	if n != depth {
		t.Fatalf("visited %d controls, want %d", n, depth)
	}
	if !controls[depth-1].trackingActive {
		t.Fatalf("deepest control not tracking")
	}
}

func TestEnableTrackingSharedChildVisitedOnce(t *testing.T) {
	shared := &fakeControl{id: 9}
	a := &fakeControl{id: 2, children: []platform.Control{shared}}
	b := &fakeControl{id: 3, children: []platform.Control{shared}}
	root := &fakeControl{id: 1, children: []platform.Control{a, b, nil}}

	n, _ := EnableTracking(root)
	if n != 4 || shared.trackingCalls != 1 {
		t.Fatalf("visited=%d sharedCalls=%d, want 4/1", n, shared.trackingCalls)
	}
}

func TestEnableTrackingReturnsFirstError(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	leaf := &fakeControl{id: 4}
	a := &fakeControl{id: 2, trackingErr: errA, children: []platform.Control{leaf}}
	b := &fakeControl{id: 3, trackingErr: errB}
	root := &fakeControl{id: 1, children: []platform.Control{a, b}}

	n, err := EnableTracking(root)
	if !errors.Is(err, errA) {
		t.Fatalf("err = %v, want %v", err, errA)
	}
	if n != 4 || !leaf.trackingActive {
		t.Fatalf("visited=%d leafActive=%v, want 4/true", n, leaf.trackingActive)
	}
}

func TestEnableTrackingNilRoot(t *testing.T) {
	n, err := EnableTracking(nil)
	if n != 0 || err != nil {
		t.Fatalf("EnableTracking(nil) = %d, %v", n, err)
	}
}
