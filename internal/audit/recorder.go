// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/wayfare-app/wayfare/internal/platform/constants"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/metrics"
)

// writeTimeout bounds a single log insert so a stalled database cannot
// wedge the worker.
const writeTimeout = 5 * time.Second

// Writer persists finished audit entries.
type Writer interface {
	Insert(ctx context.Context, entry Entry) error
}

// Recorder accepts audit entries and persists them on a background worker.
//
// # Failure Policy
//
// The recorder absorbs every failure mode itself. A full queue drops the
// entry, a failed insert is logged and counted, and neither is ever
// reported to the code that produced the entry.
type Recorder struct {
	writer Writer
	logger *slog.Logger
	queue  chan Entry
	done   chan struct{}
}

// NewRecorder starts the background worker and returns the recorder.
func NewRecorder(writer Writer, logger *slog.Logger) *Recorder {
	recorder := &Recorder{
		writer: writer,
		logger: logger,
		queue:  make(chan Entry, constants.AuditQueueSize),
		done:   make(chan struct{}),
	}
	go recorder.run()
	return recorder
}

// Record enqueues an entry without blocking the caller.
func (recorder *Recorder) Record(entry Entry) {
	select {
	case recorder.queue <- entry:
	default:
		metrics.AuditWrite(metrics.AuditOutcomeFailed)
		recorder.logger.Error("audit_queue_full",
			slog.String("action_type", entry.ActionType),
			slog.String("action_object", entry.ActionObject),
		)
	}
}

// Close stops accepting entries, drains the queue, and waits for the
// worker to finish. Call it during graceful shutdown.
func (recorder *Recorder) Close() {
	close(recorder.queue)
	<-recorder.done
}

// run is the worker loop. It exits when the queue is closed and drained.
func (recorder *Recorder) run() {
	defer close(recorder.done)
	for entry := range recorder.queue {
		recorder.persist(entry)
	}
}

// persist writes one entry, counting and logging failures instead of
// propagating them.
func (recorder *Recorder) persist(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := recorder.writer.Insert(ctx, entry); err != nil {
		metrics.AuditWrite(metrics.AuditOutcomeFailed)
		recorder.logger.Error("audit_write_failed",
			slog.String("error", err.Error()),
			slog.String("action_type", entry.ActionType),
			slog.String("action_object", entry.ActionObject),
		)
		return
	}
	metrics.AuditWrite(metrics.AuditOutcomeOK)
}

// Do wraps a business call with audit recording.
//
// The wrapped function runs exactly once and its result and error are
// returned verbatim. After it returns, an entry is assembled and enqueued:
//
//  1. Actor: the authenticated identity on the context, falling back to the
//     result itself when it implements [ActorSource] (login has no identity
//     on the way in). Nil when neither is available.
//  2. Object: the first integer among args, falling back to the result when
//     it implements [ObjectSource].
//  3. Source IP: the client address resolved by the HTTP middleware.
func Do[T any](ctx context.Context, recorder *Recorder, descriptor Descriptor, args []any, fn func(context.Context) (T, error)) (T, error) {
	result, callErr := fn(ctx)

	entry := Entry{
		ActionType:   descriptor.Type,
		ActionObject: descriptor.Object,
		Content:      contentFor(descriptor, callErr),
		SourceIP:     ctxutil.GetClientIP(ctx),
		CreatedAt:    time.Now().UTC(),
	}

	if claims := ctxutil.GetIdentity(ctx); claims != nil {
		actorID := claims.SubjectID
		entry.ActorID = &actorID
	} else if source, ok := any(result).(ActorSource); ok {
		if actorID, present := source.AuditActorID(); present {
			entry.ActorID = &actorID
		}
	}

	if objectID, ok := firstObjectID(args); ok {
		entry.ObjectID = &objectID
	} else if source, ok := any(result).(ObjectSource); ok {
		if objectID, present := source.AuditObjectID(); present {
			entry.ObjectID = &objectID
		}
	}

	recorder.Record(entry)
	return result, callErr
}
