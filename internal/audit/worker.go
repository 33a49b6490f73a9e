package audit

import (
	"context"
	"log/slog"
)

// Trail accepts events from request handlers and hands them to a background
// worker. Record never blocks; events are dropped when the buffer is full.
type Trail struct {
	events chan Event
	store  Store
	logger *slog.Logger
}

func NewTrail(store Store, logger *slog.Logger, buffer int) *Trail {
	if buffer <= 0 {
		buffer = 256
	}
	return &Trail{
		events: make(chan Event, buffer),
		store:  store,
		logger: logger,
	}
}

// Record enqueues an event for the worker.
func (t *Trail) Record(e Event) {
	select {
	case t.events <- e:
	default:
		t.logger.Warn("audit buffer full, dropping event", "member", e.MemberName, "samaj", e.SamajName)
	}
}

// Run consumes events until ctx is cancelled, then drains what is already
// buffered before returning.
func (t *Trail) Run(ctx context.Context) error {
	for {
		select {
		case e := <-t.events:
			t.append(ctx, e)
		case <-ctx.Done():
			for {
				select {
				case e := <-t.events:
					t.append(context.WithoutCancel(ctx), e)
				default:
					return ctx.Err()
				}
			}
		}
	}
}

func (t *Trail) append(ctx context.Context, e Event) {
	if err := t.store.Append(ctx, e); err != nil {
		t.logger.Error("failed to append audit event", "event_id", e.ID, "error", err)
		return
	}
	t.logger.Info("member registered",
		"event_id", e.ID,
		"member", e.MemberName,
		"role", e.Role,
		"family", e.FamilyName,
		"samaj", e.SamajName,
	)
}
