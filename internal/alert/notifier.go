package alert

import (
	"context"
	"fmt"
	"strings"

	"nfl_v1/ingestion/internal/validate"

	"github.com/rs/zerolog/log"
)

// Notifier renders validation findings into alerts and forwards them to the
// sink. A failed send is logged, never propagated: alerting must not break
// the ingestion path it reports on.
type Notifier struct {
	sink Sink
}

// NewNotifier wraps a sink. A nil sink falls back to the log sink.
func NewNotifier(sink Sink) *Notifier {
	if sink == nil {
		sink = LogSink{}
	}
	return &Notifier{sink: sink}
}

// ReportFailure forwards a failed validation report. Valid reports are
// ignored.
func (n *Notifier) ReportFailure(ctx context.Context, season int, report *validate.Report) {
	if report == nil || report.Valid {
		return
	}

	title := fmt.Sprintf("Data quality failure: season %d week %d", season, report.Week)
	message := strings.Join(report.Issues, "\n")

	severity := SeverityWarning
	if len(report.Issues) > 2 {
		severity = SeverityError
	}

	if err := n.sink.Send(ctx, title, message, severity); err != nil {
		log.Error().Err(err).Str("title", title).Msg("Failed to send alert")
	}
}

// ReportSummary forwards a season summary block at info severity.
func (n *Notifier) ReportSummary(ctx context.Context, season int, summary string) {
	title := fmt.Sprintf("Data quality summary: season %d", season)
	if err := n.sink.Send(ctx, title, summary, SeverityInfo); err != nil {
		log.Error().Err(err).Str("title", title).Msg("Failed to send summary alert")
	}
}
