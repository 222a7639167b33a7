package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

type recordingNotifier struct {
	mu      sync.Mutex
	sent    []string
	fail    bool
	block   chan struct{}
	started chan struct{}
}

func (n *recordingNotifier) SendOTP(context.Context, domain.Identifier, string) ports.DeliveryResult {
	return ports.DeliveryResult{}
}

func (n *recordingNotifier) SendWelcome(_ context.Context, email string) error {
	if n.started != nil {
		n.started <- struct{}{}
	}
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	if n.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func TestDispatcherDeliversQueuedJobsOnStop(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(2, n, zerolog.Nop())
	d.Start(context.Background())

	d.EnqueueWelcome("a@x.io")
	d.EnqueueWelcome("b@x.io")
	d.EnqueueWelcome("c@x.io")
	d.Stop()

	if got := n.count(); got != 3 {
		t.Fatalf("expected 3 welcome emails, got %d", got)
	}
}

func TestDispatcherFailuresAreSwallowed(t *testing.T) {
	n := &recordingNotifier{fail: true}
	d := NewDispatcher(1, n, zerolog.Nop())
	d.Start(context.Background())

	d.EnqueueWelcome("a@x.io")
	d.Stop()

	if got := n.count(); got != 1 {
		t.Fatalf("expected one attempt, got %d", got)
	}
}

func TestDispatcherSkipsBlankAndStopped(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(1, n, zerolog.Nop())
	d.Start(context.Background())

	d.EnqueueWelcome("   ")
	d.Stop()
	d.EnqueueWelcome("late@x.io")
	d.Stop()

	if got := n.count(); got != 0 {
		t.Fatalf("expected nothing sent, got %d", got)
	}
}

func TestDispatcherDropsWhenShardFull(t *testing.T) {
	n := &recordingNotifier{block: make(chan struct{}), started: make(chan struct{}, 1)}
	d := NewDispatcher(1, n, zerolog.Nop())
	d.Start(context.Background())

	d.EnqueueWelcome("first@x.io")
	<-n.started // worker is now busy with the first job

	for i := 0; i < channelBuffer+10; i++ {
		d.EnqueueWelcome("more@x.io")
	}

	n.started = nil
	close(n.block)
	d.Stop()

	if got := n.count(); got != channelBuffer+1 {
		t.Fatalf("expected %d deliveries, got %d", channelBuffer+1, got)
	}
}

func TestShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingNotifier{}, zerolog.Nop())
	if d.shardIndex("User@X.io") != d.shardIndex("user@x.io") {
		t.Fatal("shard index should ignore case")
	}
	if idx := d.shardIndex("user@x.io"); idx < 0 || idx >= 4 {
		t.Fatalf("shard index out of range: %d", idx)
	}
}
