package workers

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/features/progress/service"
)

const writeTimeout = 5 * time.Second

// EventStreamWorker forwards committed progress events to a Redis stream.
// Publish never blocks: when the buffer is full the event is dropped.
type EventStreamWorker struct {
	rdb     goredis.Cmdable
	stream  string
	maxLen  int64
	events  chan service.Event
	dropped atomic.Int64
	log     zerolog.Logger
}

func NewEventStreamWorker(rdb goredis.Cmdable, cfg config.EventsConfig) *EventStreamWorker {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 1
	}
	return &EventStreamWorker{
		rdb:    rdb,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
		events: make(chan service.Event, buffer),
		log:    logger.With("event_stream"),
	}
}

// Publish is a service.Registry subscriber.
func (w *EventStreamWorker) Publish(ev service.Event) {
	select {
	case w.events <- ev:
	default:
		if n := w.dropped.Add(1); n%100 == 1 {
			w.log.Warn().Int64("dropped", n).Msg("Event buffer full, dropping events")
		}
	}
}

func (w *EventStreamWorker) Dropped() int64 { return w.dropped.Load() }

// Start runs until ctx is cancelled, then flushes what is still buffered.
func (w *EventStreamWorker) Start(ctx context.Context) {
	w.log.Info().Str("stream", w.stream).Msg("Starting event stream worker")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Info().Msg("Stopping event stream worker")
			return
		case ev := <-w.events:
			w.write(ev)
		}
	}
}

func (w *EventStreamWorker) drain() {
	for {
		select {
		case ev := <-w.events:
			w.write(ev)
		default:
			return
		}
	}
}

// write uses its own deadline so events taken off the buffer survive shutdown.
func (w *EventStreamWorker) write(ev service.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	payload, err := json.Marshal(ev)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to encode event")
		return
	}

	err = w.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: w.stream,
		MaxLen: w.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":       string(ev.Type),
			"learner_id": ev.LearnerID,
			"at":         ev.At.UTC().Format(time.RFC3339Nano),
			"coins":      ev.Profile.Coins,
			"payload":    string(payload),
		},
	}).Err()
	if err != nil {
		w.log.Error().Err(err).Str("type", string(ev.Type)).Str("learner_id", ev.LearnerID).Msg("Failed to append event")
	}
}
