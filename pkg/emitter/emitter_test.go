package emitter_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shashiranjanraj/sanket/pkg/emitter"
)

// newRegistry builds a quiet, uninstrumented registry for tests.
func newRegistry(opts ...emitter.Option) *emitter.Registry {
	base := []emitter.Option{
		emitter.WithMetrics(false),
		emitter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return emitter.New(append(base, opts...)...)
}

func TestOnAndEmit(t *testing.T) {
	reg := newRegistry()

	var gotEvent string
	var gotPayload any
	calls := 0

	if err := reg.On("greet", func(event string, payload any) {
		calls++
		gotEvent = event
		gotPayload = payload
	}); err != nil {
		t.Fatalf("On returned unexpected error: %v", err)
	}

	if err := reg.Emit("greet", "hello"); err != nil {
		t.Fatalf("Emit returned unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 invocation, got %d", calls)
	}
	if gotEvent != "greet" || gotPayload != "hello" {
		t.Errorf("listener saw (%q, %v), want (%q, %v)", gotEvent, gotPayload, "greet", "hello")
	}
}

func TestOnceFiresOnFirstEmitOnly(t *testing.T) {
	reg := newRegistry()

	calls := 0
	var seen any
	if err := reg.Once("boot", func(event string, payload any) {
		calls++
		seen = payload
	}); err != nil {
		t.Fatalf("Once: %v", err)
	}

	if err := reg.Emit("boot", 1); err != nil {
		t.Fatalf("first Emit: %v", err)
	}
	if err := reg.Emit("boot", 2); err != nil {
		t.Fatalf("second Emit: %v", err)
	}

	if calls != 1 {
		t.Errorf("once-listener ran %d times, want 1", calls)
	}
	if seen != 1 {
		t.Errorf("once-listener saw payload %v, want first payload 1", seen)
	}
	if n := reg.ListenerCount("boot"); n != 0 {
		t.Errorf("once-listener still registered: count %d", n)
	}
}

func TestDispatchFollowsRegistrationOrder(t *testing.T) {
	reg := newRegistry()

	var order []string
	for _, tag := range []string{"first", "second", "third"} {
		tag := tag
		if err := reg.On("step", func(string, any) { order = append(order, tag) }); err != nil {
			t.Fatalf("On(%s): %v", tag, err)
		}
	}

	if err := reg.Emit("step", nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("ran %d listeners, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: ran %q, want %q", i, order[i], want[i])
		}
	}
}

func TestMaxListenersCap(t *testing.T) {
	reg := newRegistry()
	reg.SetMaxListeners(1)

	if err := reg.On("full", func(string, any) {}); err != nil {
		t.Fatalf("first On: %v", err)
	}

	err := reg.On("full", func(string, any) {})
	if !errors.Is(err, emitter.ErrMaxListeners) {
		t.Fatalf("expected ErrMaxListeners, got %v", err)
	}

	err = reg.Once("full", func(string, any) {})
	if !errors.Is(err, emitter.ErrMaxListeners) {
		t.Fatalf("Once past cap: expected ErrMaxListeners, got %v", err)
	}

	if n := reg.ListenerCount("full"); n != 1 {
		t.Errorf("rejected registration mutated the list: count %d, want 1", n)
	}
}

func TestZeroCapMeansUncapped(t *testing.T) {
	reg := newRegistry()
	reg.SetMaxListeners(0)

	for i := 0; i < 100; i++ {
		if err := reg.On("burst", func(string, any) {}); err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
	}
	if n := reg.ListenerCount("burst"); n != 100 {
		t.Errorf("count %d, want 100", n)
	}
}

func TestCapIsNotRetroactive(t *testing.T) {
	reg := newRegistry()

	for i := 0; i < 3; i++ {
		if err := reg.On("busy", func(string, any) {}); err != nil {
			t.Fatalf("On: %v", err)
		}
	}

	reg.SetMaxListeners(1)

	if n := reg.ListenerCount("busy"); n != 3 {
		t.Errorf("lowering the cap evicted listeners: count %d, want 3", n)
	}
	if err := reg.On("busy", func(string, any) {}); !errors.Is(err, emitter.ErrMaxListeners) {
		t.Errorf("expected ErrMaxListeners after lowering cap, got %v", err)
	}
}

func TestSetMaxListenersClampsNegative(t *testing.T) {
	reg := newRegistry()
	reg.SetMaxListeners(-5)
	if got := reg.MaxListeners(); got != 0 {
		t.Errorf("MaxListeners() = %d, want 0", got)
	}
}

func TestUnknownEvent(t *testing.T) {
	reg := newRegistry()

	if err := reg.Emit("nope", nil); !errors.Is(err, emitter.ErrUnknownEvent) {
		t.Errorf("Emit: expected ErrUnknownEvent, got %v", err)
	}
	if _, err := reg.Listeners("nope"); !errors.Is(err, emitter.ErrUnknownEvent) {
		t.Errorf("Listeners: expected ErrUnknownEvent, got %v", err)
	}
}

func TestRemoveAllListeners(t *testing.T) {
	reg := newRegistry()

	calls := 0
	if err := reg.On("gone", func(string, any) { calls++ }); err != nil {
		t.Fatalf("On: %v", err)
	}

	if !reg.RemoveAllListeners("gone") {
		t.Fatal("RemoveAllListeners returned false for a known event")
	}

	// Still a known event: Emit must succeed as a no-op.
	if err := reg.Emit("gone", nil); err != nil {
		t.Errorf("Emit after removal: %v", err)
	}
	if calls != 0 {
		t.Errorf("removed listener ran %d times", calls)
	}

	infos, err := reg.Listeners("gone")
	if err != nil {
		t.Errorf("Listeners after removal: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty listener list, got %d", len(infos))
	}

	if reg.RemoveAllListeners("neverSeen") {
		t.Error("RemoveAllListeners returned true for an unknown event")
	}
}

func TestReservedEntries(t *testing.T) {
	reg := newRegistry()

	names := reg.EventNames()
	if len(names) != 2 || names[0] != emitter.EventNewListener || names[1] != emitter.EventRemoveListener {
		t.Fatalf("fresh registry names = %v, want [%s %s]",
			names, emitter.EventNewListener, emitter.EventRemoveListener)
	}

	for _, name := range names {
		infos, err := reg.Listeners(name)
		if err != nil {
			t.Errorf("Listeners(%s): %v", name, err)
		}
		if len(infos) != 0 {
			t.Errorf("reserved event %s has %d listeners, want 0", name, len(infos))
		}
	}

	// Reserved entries are inert: nothing fires them implicitly.
	fired := false
	if err := reg.On(emitter.EventNewListener, func(string, any) { fired = true }); err != nil {
		t.Fatalf("On(newListener): %v", err)
	}
	if err := reg.On("anything", func(string, any) {}); err != nil {
		t.Fatalf("On: %v", err)
	}
	if fired {
		t.Error("registry auto-fired the reserved newListener event")
	}
}

func TestDefaults(t *testing.T) {
	reg := newRegistry()
	if got := reg.MaxListeners(); got != emitter.DefaultMaxListeners {
		t.Errorf("default cap = %d, want %d", got, emitter.DefaultMaxListeners)
	}
}

func TestNilCallbackRejected(t *testing.T) {
	reg := newRegistry()
	if err := reg.On("x", nil); !errors.Is(err, emitter.ErrNilCallback) {
		t.Errorf("On(nil): expected ErrNilCallback, got %v", err)
	}
	if err := reg.Once("x", nil); !errors.Is(err, emitter.ErrNilCallback) {
		t.Errorf("Once(nil): expected ErrNilCallback, got %v", err)
	}
	// A nil registration must not create the entry.
	if err := reg.Emit("x", nil); !errors.Is(err, emitter.ErrUnknownEvent) {
		t.Errorf("entry leaked from rejected registration: %v", err)
	}
}

func TestEventNamesPreserveInsertionOrder(t *testing.T) {
	reg := newRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := reg.On(name, func(string, any) {}); err != nil {
			t.Fatalf("On(%s): %v", name, err)
		}
	}

	names := reg.EventNames()
	want := []string{emitter.EventNewListener, emitter.EventRemoveListener, "zeta", "alpha", "mid"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListenerViews(t *testing.T) {
	reg := newRegistry()
	if err := reg.On("mixed", func(string, any) {}); err != nil {
		t.Fatalf("On: %v", err)
	}
	if err := reg.Once("mixed", func(string, any) {}); err != nil {
		t.Fatalf("Once: %v", err)
	}

	infos, err := reg.Listeners("mixed")
	if err != nil {
		t.Fatalf("Listeners: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d listener views, want 2", len(infos))
	}
	if infos[0].Kind != emitter.Persistent || infos[1].Kind != emitter.OneShot {
		t.Errorf("kinds = %v/%v, want persistent then one-shot", infos[0].Kind, infos[1].Kind)
	}
	if infos[0].ID == infos[1].ID {
		t.Errorf("listener IDs collide: %d", infos[0].ID)
	}

	events := reg.Events()
	found := false
	for _, ev := range events {
		if ev.Name == "mixed" {
			found = true
			if len(ev.Listeners) != 2 {
				t.Errorf("Events view has %d listeners, want 2", len(ev.Listeners))
			}
		}
	}
	if !found {
		t.Error("Events view is missing the registered event")
	}
}

func TestPayloadSharedAcrossListeners(t *testing.T) {
	reg := newRegistry()

	type box struct{ n int }
	payload := &box{n: 42}

	var first, second any
	if err := reg.On("share", func(_ string, p any) { first = p }); err != nil {
		t.Fatalf("On: %v", err)
	}
	if err := reg.On("share", func(_ string, p any) { second = p }); err != nil {
		t.Fatalf("On: %v", err)
	}

	if err := reg.Emit("share", payload); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if first != payload || second != payload {
		t.Error("listeners did not observe the same payload value")
	}
}

// ─── Re-entrancy ──────────────────────────────────────────────────────────────

func TestListenerAddedMidDispatchWaitsForNextEmit(t *testing.T) {
	reg := newRegistry()

	lateCalls := 0
	if err := reg.On("grow", func(string, any) {
		if err := reg.On("grow", func(string, any) { lateCalls++ }); err != nil {
			t.Errorf("re-entrant On: %v", err)
		}
	}); err != nil {
		t.Fatalf("On: %v", err)
	}

	if err := reg.Emit("grow", nil); err != nil {
		t.Fatalf("first Emit: %v", err)
	}
	if lateCalls != 0 {
		t.Fatalf("listener added mid-dispatch ran in the same sweep")
	}

	if err := reg.Emit("grow", nil); err != nil {
		t.Fatalf("second Emit: %v", err)
	}
	if lateCalls != 1 {
		t.Errorf("listener added mid-dispatch ran %d times on next Emit, want 1", lateCalls)
	}
}

func TestListenerRemovedMidDispatchDoesNotRun(t *testing.T) {
	reg := newRegistry()

	secondRan := false
	if err := reg.On("shrink", func(string, any) {
		reg.RemoveAllListeners("shrink")
	}); err != nil {
		t.Fatalf("On: %v", err)
	}
	if err := reg.On("shrink", func(string, any) { secondRan = true }); err != nil {
		t.Fatalf("On: %v", err)
	}

	if err := reg.Emit("shrink", nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if secondRan {
		t.Error("listener removed mid-dispatch still ran")
	}
}

func TestOnceSurvivesReentrantEmit(t *testing.T) {
	reg := newRegistry()

	calls := 0
	if err := reg.Once("ping", func(string, any) {
		calls++
		// Re-entrant emit on the same event while the once-listener runs.
		if err := reg.Emit("ping", nil); err != nil {
			t.Errorf("re-entrant Emit: %v", err)
		}
	}); err != nil {
		t.Fatalf("Once: %v", err)
	}

	if err := reg.Emit("ping", nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if calls != 1 {
		t.Errorf("once-listener ran %d times under re-entrant emit, want 1", calls)
	}
}

func TestReentrantEmitOnOtherEvent(t *testing.T) {
	reg := newRegistry()

	var order []string
	if err := reg.On("outer", func(string, any) {
		order = append(order, "outer")
		if err := reg.Emit("inner", nil); err != nil {
			t.Errorf("nested Emit: %v", err)
		}
	}); err != nil {
		t.Fatalf("On: %v", err)
	}
	if err := reg.On("inner", func(string, any) { order = append(order, "inner") }); err != nil {
		t.Fatalf("On: %v", err)
	}

	if err := reg.Emit("outer", nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("nested dispatch order = %v, want [outer inner]", order)
	}
}

// ─── Concurrency ──────────────────────────────────────────────────────────────

func TestConcurrentRegisterAndEmit(t *testing.T) {
	reg := newRegistry()
	reg.SetMaxListeners(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = reg.On("storm", func(string, any) {})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = reg.Emit("storm", j)
				_ = reg.ListenerCount("storm")
			}
		}()
	}
	wg.Wait()

	if n := reg.ListenerCount("storm"); n != 8*50 {
		t.Errorf("count %d, want %d", n, 8*50)
	}
}
