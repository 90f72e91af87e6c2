package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publisher delivers user lifecycle events. Delivery is best-effort; a
// failed publish must never fail the mutation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event domain.UserEvent)
}

var eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "user_events_published_total",
	Help: "Total user lifecycle events published",
}, []string{"type"})

// LogPublisher writes events to the structured log. It stands in for a
// broker-backed publisher; the Publisher interface is the seam where one
// would plug in.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.UserEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	eventsPublished.WithLabelValues(string(event.Type)).Inc()

	p.log.InfoContext(ctx, "user_event",
		"type", string(event.Type),
		"user_id", event.UserID,
		"email", event.Email,
		"occurred_at", event.OccurredAt.Format(time.RFC3339),
	)
}

// NopPublisher discards all events. Useful in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.UserEvent) {}
