package notify

import (
	"github.com/rs/zerolog/log"
)

// Event is a user-facing notification request. Delivery mechanics live
// outside the engine; the engine only hands events to a Sink and moves on.
type Event struct {
	Title string
	Body  string
	Meta  map[string]string
}

// Sink receives notification events. Fire-and-forget: implementations must
// not return errors into the engine and must not block it.
type Sink interface {
	Notify(event Event)
}

// LogSink writes events to the structured log. Stands in for the real
// delivery channel; also useful in development.
type LogSink struct{}

func (LogSink) Notify(event Event) {
	log.Info().Str("title", event.Title).Str("body", event.Body).Fields(map[string]interface{}{"meta": event.Meta}).Msg("notification")
}

// Gated wraps a Sink behind the global notifications-enabled setting.
// Callers record their own state (e.g. alert-sent flags) regardless of
// whether the wrapped sink was invoked.
type Gated struct {
	Enabled bool
	Sink    Sink
}

func (g Gated) Notify(event Event) {
	if !g.Enabled || g.Sink == nil {
		return
	}
	g.Sink.Notify(event)
}
