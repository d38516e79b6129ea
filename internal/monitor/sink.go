package monitor

import (
	"context"
	"errors"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// LogSink writes alerts to the log. It is the sink used when nothing else
// is configured.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: logger.OrNop(log)}
}

// Notify implements domain.AlertSink.
func (s *LogSink) Notify(_ context.Context, alert domain.PriceAlert) error {
	s.logger.WithSubject(alert.SubjectID).Warn().
		Float64("min_price", alert.MinPrice).
		Float64("threshold", alert.Threshold).
		Str("provider", alert.Item.SourceProvider).
		Str("listing", alert.Item.DisplayName).
		Time("observed_at", alert.ObservedAt).
		Msg("price dropped below threshold")
	return nil
}

// MultiSink delivers each alert to every sink, and reports all failures.
type MultiSink []domain.AlertSink

// Notify implements domain.AlertSink.
func (m MultiSink) Notify(ctx context.Context, alert domain.PriceAlert) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ domain.AlertSink = (*LogSink)(nil)
	_ domain.AlertSink = MultiSink(nil)
)
