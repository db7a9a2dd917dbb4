package watch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTriggerCoalesces(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	started := make(chan struct{}, 8)
	release := make(chan struct{})

	w := New(t.TempDir(), func(ctx context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil
	})

	ctx := context.Background()
	w.trigger(ctx)
	<-started // first run is in flight

	// Any number of triggers during the run collapses into one rerun.
	w.trigger(ctx)
	w.trigger(ctx)
	w.trigger(ctx)
	close(release)
	<-started // the single coalesced rerun

	deadline := time.After(2 * time.Second)
	for {
		w.mu.Lock()
		done := !w.inFlight
		w.mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("runner never settled")
		case <-time.After(5 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (one in flight, one coalesced)", runs)
	}
}

func TestIgnored(t *testing.T) {
	w := New(".", nil)
	tests := []struct {
		path string
		want bool
	}{
		{"src/users/users.api.py", false},
		{"node_modules", true},
		{"src/node_modules/pkg/file.js", true},
		{".git", true},
		{".fluid", true},
		{"src/.fluid/runtime.ts", true},
		{"src/app/__pycache__/x.pyc", true},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
