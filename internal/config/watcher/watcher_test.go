package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// recorder collects events delivered to a handler.
type recorder struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Event, 16)}
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.ch <- e
}

func (r *recorder) wait(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-r.ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestNew(t *testing.T) {
	w := newTestWatcher(t)
	if w.debounce != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %v", w.debounce)
	}

	w = newTestWatcher(t, WithDebounce(20*time.Millisecond), WithDebounce(-1))
	if w.debounce != 20*time.Millisecond {
		t.Errorf("expected debounce 20ms, got %v", w.debounce)
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	path := filepath.Join(dir, "config.toml")
	if err := w.Watch(path); err != nil {
		t.Fatalf("watching a missing file in an existing dir should work, got %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("watching twice should be a no-op, got %v", err)
	}
	if files := w.WatchedFiles(); len(files) != 1 {
		t.Errorf("expected 1 watched file, got %v", files)
	}

	if err := w.Watch(filepath.Join(dir, "missing", "config.toml")); !errors.Is(err, ErrDirNotExist) {
		t.Errorf("expected ErrDirNotExist, got %v", err)
	}

	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if files := w.WatchedFiles(); len(files) != 0 {
		t.Errorf("expected no watched files, got %v", files)
	}
}

func TestWatchAfterClose(t *testing.T) {
	w := newTestWatcher(t)
	w.Close()

	if err := w.Watch(filepath.Join(t.TempDir(), "a.toml")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("expected ErrWatcherClosed, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestStartAndClose(t *testing.T) {
	w := newTestWatcher(t)
	if w.IsRunning() {
		t.Error("watcher should not run before Start")
	}
	w.Start()
	w.Start()
	if !w.IsRunning() {
		t.Error("watcher should run after Start")
	}
	w.Close()
	if w.IsRunning() {
		t.Error("watcher should stop after Close")
	}
}

func TestDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := rec.wait(t)
	want, _ := filepath.Abs(path)
	if e.Path != want {
		t.Errorf("expected path %q, got %q", want, e.Path)
	}
}

func TestDetectsCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if e := rec.wait(t); e.Op != OpCreate {
		t.Errorf("expected create, got %s", e.Op)
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w := newTestWatcher(t, WithDebounce(0))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := rec.wait(t)
	if filepath.Base(e.Path) != "config.toml" {
		t.Errorf("expected only config.toml events, got %q", e.Path)
	}
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(200*time.Millisecond))
	rec := newRecorder()
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rec.wait(t)
	time.Sleep(400 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("expected 1 coalesced event, got %d", n)
	}
}

func TestHandlerPanicDoesNotStopWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w := newTestWatcher(t, WithDebounce(0))
	rec := newRecorder()
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(rec.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec.wait(t)
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		existing, next, want Operation
	}{
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpWrite, OpWrite},
		{OpWrite, OpRemove, OpRemove},
		{OpCreate, OpRemove, OpRemove},
		{OpRemove, OpCreate, OpWrite},
		{OpRename, OpCreate, OpWrite},
		{OpWrite, OpCreate, OpCreate},
	}

	for _, tt := range tests {
		if got := coalesce(tt.existing, tt.next); got != tt.want {
			t.Errorf("coalesce(%s, %s): expected %s, got %s", tt.existing, tt.next, tt.want, got)
		}
	}
}
