package survey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/google/uuid"
)

func newTestRegistry(idle time.Duration) (*Registry, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(idle, logger.Nop())
	r.now = func() time.Time { return now }
	return r, &now
}

func newMountedController(t *testing.T) *Controller {
	c, _ := newTestController(nil)
	mountAndWait(t, c)
	return c
}

// TestRegistry_AddGet tests session creation and lookup
func TestRegistry_AddGet(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	ctrl := newMountedController(t)

	s := r.Add(ctrl)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("expected a UUID session id, got %q", s.ID)
	}

	got, err := r.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Controller != ctrl {
		t.Error("expected the registered controller")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}
}

// TestRegistry_NotFound tests unknown ids
func TestRegistry_NotFound(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	if _, err := r.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := r.Remove("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// TestRegistry_Remove tests that removal unmounts
func TestRegistry_Remove(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	ctrl := newMountedController(t)
	s := r.Add(ctrl)

	if err := r.Remove(s.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctrl.Mounted() {
		t.Error("expected controller to be unmounted")
	}
	if _, err := r.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected session gone, got %v", err)
	}
}

// TestRegistry_EvictIdle tests idle eviction and activity refresh
func TestRegistry_EvictIdle(t *testing.T) {
	r, now := newTestRegistry(10 * time.Minute)

	idle := newMountedController(t)
	active := newMountedController(t)
	idleSession := r.Add(idle)
	activeSession := r.Add(active)

	*now = now.Add(8 * time.Minute)
	r.Get(activeSession.ID)

	*now = now.Add(5 * time.Minute)
	if evicted := r.EvictIdle(); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}

	if _, err := r.Get(idleSession.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("expected idle session to be evicted")
	}
	if idle.Mounted() {
		t.Error("expected evicted controller to be unmounted")
	}
	if !active.Mounted() {
		t.Error("expected active controller to stay mounted")
	}
}

// TestRegistry_EvictIdle_Disabled tests a zero timeout
func TestRegistry_EvictIdle_Disabled(t *testing.T) {
	r, now := newTestRegistry(0)
	r.Add(newMountedController(t))

	*now = now.Add(24 * time.Hour)

	if evicted := r.EvictIdle(); evicted != 0 {
		t.Errorf("expected no eviction, got %d", evicted)
	}
}

// TestRegistry_Run tests the background loop stops with its context
func TestRegistry_Run(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}

// TestRegistry_Close tests that closing unmounts everything
func TestRegistry_Close(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	a := newMountedController(t)
	b := newMountedController(t)
	r.Add(a)
	r.Add(b)

	r.Close()

	if a.Mounted() || b.Mounted() {
		t.Error("expected all controllers unmounted")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}

// TestRegistry_Add_TagsControllerLogs tests that session logs carry the id
func TestRegistry_Add_TagsControllerLogs(t *testing.T) {
	var buf bytes.Buffer
	ctrl := NewController(&fakeLocations{}, nil, nil, logger.New(logger.Config{Level: "debug", Writer: &buf}))
	r, _ := newTestRegistry(time.Minute)

	s := r.Add(ctrl)
	buf.Reset()

	if _, err := ctrl.Submit(); err == nil {
		t.Fatal("expected an empty form to be rejected")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.SplitN(buf.Bytes(), []byte("\n"), 2)[0], &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["session_id"] != s.ID {
		t.Errorf("expected session_id %s, got %v", s.ID, entry["session_id"])
	}
	if entry["component"] != "SurveyController" {
		t.Errorf("expected component SurveyController, got %v", entry["component"])
	}
}
