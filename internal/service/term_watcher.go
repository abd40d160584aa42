package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
)

// TermWatcher resolves the term for the new day so the first query after
// midnight finds it cached, and warns when the calendar runs out of terms.
type TermWatcher struct {
	terms  termResolver
	clock  calendar.Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewTermWatcher constructs a watcher.
func NewTermWatcher(terms termResolver, clock calendar.Clock, loc *time.Location, logger *zap.Logger) *TermWatcher {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if loc == nil {
		loc = calendar.FixedZone
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermWatcher{terms: terms, clock: clock, loc: loc, logger: logger}
}

// Run resolves today's term.
func (w *TermWatcher) Run(ctx context.Context) {
	today := calendar.Today(w.clock.Now(), w.loc)
	term, err := w.terms.Resolve(ctx, today)
	switch {
	case IsTermNotFound(err):
		w.logger.Warn("no academic term covers today", zap.String("today", today))
	case err != nil:
		w.logger.Error("term warmup failed", zap.String("today", today), zap.Error(err))
	default:
		w.logger.Info("term resolved", zap.String("today", today), zap.String("semester", term.Semester()), zap.String("ends", term.EndDate))
	}
}
