package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/features/progress/service"
	"vocab-progress-backend/internal/workers"
)

// drainingServer commits one more transition while it shuts down.
type drainingServer struct {
	worker    *workers.EventStreamWorker
	workerCtx context.Context
	stopped   bool
}

func (s *drainingServer) Shutdown(context.Context) error {
	s.stopped = s.workerCtx.Err() != nil
	s.worker.Publish(service.Event{Type: service.EventPurchase, LearnerID: "late"})
	return nil
}

func TestShutdownStreamsEventsOfDrainingRequests(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	worker := workers.NewEventStreamWorker(rdb, config.EventsConfig{Stream: "progress:events", MaxLen: 100, Buffer: 8})
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	workerDone := make(chan struct{})
	go func() {
		worker.Start(workerCtx)
		close(workerDone)
	}()

	server := &drainingServer{worker: worker, workerCtx: workerCtx}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown(ctx, server, stopWorker, workerDone)

	assert.False(t, server.stopped, "worker stopped before the server finished draining")

	msgs, err := rdb.XRange(context.Background(), "progress:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "late", msgs[0].Values["learner_id"])
}
