// Package alert defines the boundary to operator notification channels.
// Delivery transports (SMS, chat, email) live outside this service; the
// core only produces a title/message/severity triple and hands it to a Sink.
package alert

import (
	"context"

	"nfl_v1/ingestion/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Severity classifies an alert for downstream routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Sink receives alerts. Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, title, message string, severity Severity) error
}

// LogSink writes alerts to the structured log. It is the default sink in
// development and the fallback when no delivery channel is configured.
type LogSink struct{}

// Send logs the alert at a level matching its severity.
func (LogSink) Send(_ context.Context, title, message string, severity Severity) error {
	var evt *zerolog.Event
	switch severity {
	case SeverityCritical, SeverityError:
		evt = log.Error()
	case SeverityWarning:
		evt = log.Warn()
	default:
		evt = log.Info()
	}

	evt.
		Str("severity", string(severity)).
		Str("title", title).
		Msg(message)

	metrics.RecordAlert(string(severity))
	return nil
}
