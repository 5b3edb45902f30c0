package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/netergm/pkg/observability"
)

// syncBuffer guards a buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, "Testing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Testing...") {
		t.Errorf("spinner output = %q, want message", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, io.Discard, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, io.Discard, "Testing with timeout...")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), io.Discard, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var out bytes.Buffer

	s := newSpinnerTo(context.Background(), io.Discard, "Testing success...")
	s.Start()
	s.StopWithSuccess(&out, "Done!")

	s = newSpinnerTo(context.Background(), io.Discard, "Testing error...")
	s.Start()
	s.StopWithError(&out, "Failed!")

	got := out.String()
	if !strings.Contains(got, "Done!") || !strings.Contains(got, "Failed!") {
		t.Errorf("output = %q, want both messages", got)
	}
}

func TestSpinnerUpdatePadsShorterMessages(t *testing.T) {
	s := newSpinnerTo(context.Background(), io.Discard, "a long message")
	s.Update("short")
	if len(s.message) != len("a long message") {
		t.Errorf("message = %q, want padded to %d", s.message, len("a long message"))
	}
	s.Update("an even longer message")
	if s.message != "an even longer message" || s.width != len(s.message) {
		t.Errorf("message = %q, width = %d", s.message, s.width)
	}
}

func TestFollowFits(t *testing.T) {
	defer observability.Reset()

	s := newSpinnerTo(context.Background(), io.Discard, "Fitting...")
	restore := followFits(s, 2)

	observability.Fit().OnFitStart(context.Background(), "homophily", 3)
	if !strings.HasPrefix(s.message, "Fitting homophily (1/2)...") {
		t.Errorf("message = %q", s.message)
	}

	restore()
	observability.Fit().OnFitStart(context.Background(), "other", 1)
	if strings.Contains(s.message, "other") {
		t.Error("spinner updated after restore")
	}
}
