package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/openfreight/carrier-gateway/internal/core/domain"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes shipped-feed entries to a fixed set of workers using
// consistent hashing on the tracking number, so entries for one shipment are
// always processed in order.
type Dispatcher struct {
	workers []chan domain.ShippedEvent
	sink    ports.ShippedEventSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.ShippedEventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ShippedEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ShippedEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an entry to the worker responsible for its tracking number.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.ShippedEvent) {
	d.workers[d.shardIndex(event.TrackingNumber)] <- event
}

// shardIndex maps a tracking number deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ShippedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("tracking_number", event.TrackingNumber).
					Int("worker_id", id).
					Msg("shipped event processing failed")
			}
		}
	}
}
