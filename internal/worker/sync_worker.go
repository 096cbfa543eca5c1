package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"relatoriomei/internal/amqp"
	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
	"relatoriomei/internal/sheets"
)

// DefaultConcurrency bounds parallel writes during a full resync.
const DefaultConcurrency = 4

// ReportSource is the read side of the report store.
type ReportSource interface {
	Reload(ctx context.Context) error
	Profile() core.Profile
	Report(p core.Period) core.Report
	FilledReports() []core.PeriodReport
}

// SyncWorker publishes report changes from the shared slot to a spreadsheet.
type SyncWorker struct {
	source      ReportSource
	publisher   sheets.ReportPublisher
	concurrency int
	logger      *log.Logger
}

func NewSyncWorker(source ReportSource, publisher sheets.ReportPublisher, concurrency int, logger *log.Logger) *SyncWorker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		source:      source,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage applies one change notification. The slot is re-read
// first because the web process owns the writes.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := w.source.Reload(ctx); err != nil {
		return fmt.Errorf("reload reports: %w", err)
	}

	switch msg.Kind {
	case amqp.KindProfile:
		if err := w.publisher.WriteProfile(ctx, w.source.Profile()); err != nil {
			return fmt.Errorf("write profile: %w", err)
		}
	case amqp.KindDelete:
		if err := w.publisher.DeletePeriod(ctx, msg.ParsedPeriod()); err != nil {
			return fmt.Errorf("delete period %s: %w", msg.Period, err)
		}
	case amqp.KindUpsert:
		if err := w.syncPeriod(ctx, msg.ParsedPeriod()); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "Applied report sync message",
		log.FieldMessageID, msg.ID,
		log.FieldKind, string(msg.Kind),
		log.FieldPeriod, msg.Period)
	return nil
}

// syncPeriod writes the current state of p. A report without data is not a
// filled period, so its row is removed instead.
func (w *SyncWorker) syncPeriod(ctx context.Context, p core.Period) error {
	r := w.source.Report(p)
	if !r.HasData() {
		if err := w.publisher.DeletePeriod(ctx, p); err != nil {
			return fmt.Errorf("delete empty period %s: %w", p, err)
		}
		return nil
	}
	if err := w.publisher.UpsertPeriod(ctx, core.PeriodReport{Period: p, Report: r}); err != nil {
		return fmt.Errorf("upsert period %s: %w", p, err)
	}
	return nil
}

// ResyncAll republishes the profile and every filled period. It recovers from
// messages lost while the worker was down. Returns the number of periods written.
func (w *SyncWorker) ResyncAll(ctx context.Context) (int, error) {
	if err := w.source.Reload(ctx); err != nil {
		return 0, fmt.Errorf("reload reports: %w", err)
	}
	if err := w.publisher.WriteProfile(ctx, w.source.Profile()); err != nil {
		return 0, fmt.Errorf("write profile: %w", err)
	}

	reports := w.source.FilledReports()
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, pr := range reports {
		g.Go(func() error {
			if err := w.publisher.UpsertPeriod(gctx, pr); err != nil {
				return fmt.Errorf("upsert period %s: %w", pr.Period, err)
			}
			written.Add(1)
			return nil
		})
	}
	err := g.Wait()

	n := int(written.Load())
	if err != nil {
		w.logger.ErrorContext(ctx, "Resync failed", log.FieldCount, n, log.FieldError, err)
		return n, err
	}
	w.logger.InfoContext(ctx, "Resync completed", log.FieldCount, n)
	return n, nil
}
