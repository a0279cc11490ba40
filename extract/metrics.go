package extract

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/schemacrawl"
)

// usageWriteTimeout bounds a single usage write so a slow store cannot
// back up the recorder indefinitely.
const usageWriteTimeout = 5 * time.Second

// usageEvent is one schema usage observation.
type usageEvent struct {
	schemaID string
	success  bool
}

// Recorder records schema usage off the extraction hot path. Events are
// queued on a channel and written by a single background goroutine, so a
// slow or failing store delays the recorder, never the extraction. Write
// failures are logged and dropped.
type Recorder struct {
	schemas schemacrawl.SchemaService
	logger  *slog.Logger
	events  chan usageEvent
	wg      sync.WaitGroup
}

// NewRecorder creates a Recorder with the given queue capacity and starts
// its background writer. Call Close to flush pending events.
func NewRecorder(schemas schemacrawl.SchemaService, logger *slog.Logger, buffer int) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	r := &Recorder{
		schemas: schemas,
		logger:  logger,
		events:  make(chan usageEvent, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record queues one usage observation. It blocks only when the queue is
// full. Must not be called after Close.
func (r *Recorder) Record(schemaID string, success bool) {
	r.events <- usageEvent{schemaID: schemaID, success: success}
}

// Close flushes queued events and stops the background writer.
func (r *Recorder) Close() {
	close(r.events)
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), usageWriteTimeout)
		err := r.schemas.RecordUsage(ctx, ev.schemaID, ev.success)
		cancel()
		if err != nil {
			r.logger.Warn("usage recording failed", "schema_id", ev.schemaID, "error", err)
		}
	}
}
