package queue

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers welcome emails on a fixed set of workers, sharded by
// address so repeated signups for one mailbox are handled in order.
type Dispatcher struct {
	workers  []chan string
	notifier ports.NotificationDispatcher
	log      zerolog.Logger
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.NotificationDispatcher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan string, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers finish the jobs already queued
// once Stop is called; ctx bounds each individual send.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueWelcome schedules a welcome email without blocking. A full shard or a
// stopped dispatcher drops the job; signup never waits on delivery.
func (d *Dispatcher) EnqueueWelcome(email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("email", email).Msg("welcome queue stopped, dropping job")
		return
	}

	select {
	case d.workers[d.shardIndex(email)] <- email:
	default:
		d.log.Warn().Str("email", email).Msg("welcome queue full, dropping job")
	}
}

// Stop closes the shards and waits for queued jobs to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an address deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	for email := range ch {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		if err := d.notifier.SendWelcome(sendCtx, email); err != nil {
			d.log.Error().Err(err).
				Str("email", email).
				Int("worker_id", id).
				Msg("welcome email failed")
		}
		cancel()
	}
}
