// Package form binds edits to the report store and exposes the form commands
// (sample data, reminder, print, exports) executed against a Host.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
)

var (
	ErrUnknownField    = core.ErrUnknownField
	ErrNoFilledReports = errors.New("no filled reports")
	ErrUnknownDatePart = errors.New("unknown signature date part")
)

// NoReportsMessage is shown when an export has nothing to write.
const NoReportsMessage = "Não há relatórios preenchidos para exportar."

// Signature date parts accepted by SetSignatureDatePart.
const (
	DatePartDay   = "day"
	DatePartMonth = "month"
	DatePartYear  = "year"
)

// Store is the subset of the report store the form needs.
type Store interface {
	Profile() core.Profile
	SetProfile(ctx context.Context, patch core.ProfilePatch)
	Report(p core.Period) core.Report
	SetReport(ctx context.Context, p core.Period, patch core.ReportPatch) error
	FilledReports() []core.PeriodReport
}

// Form is safe for concurrent use.
type Form struct {
	store  Store
	logger *log.Logger
	audit  *log.StructuredLogger
	now    func() time.Time
	sample *core.SampleGenerator

	mu     sync.RWMutex
	period core.Period
}

// Option configures a Form.
type Option func(*Form)

// WithClock overrides the clock used for dates and filenames.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Form) { f.logger = l.WithComponent(log.ComponentForm) }
}

// WithSampleGenerator overrides the demo data generator.
func WithSampleGenerator(g *core.SampleGenerator) Option {
	return func(f *Form) { f.sample = g }
}

// New returns a form editing initial.
func New(store Store, initial core.Period, opts ...Option) *Form {
	f := &Form{store: store, now: time.Now, period: initial}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentForm})
	}
	if f.sample == nil {
		f.sample = core.NewSampleGenerator(nil, f.now)
	}
	f.audit = log.NewStructuredLogger(f.logger)
	return f
}

// Period returns the period being edited.
func (f *Form) Period() core.Period {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.period
}

// SetPeriod switches the period being edited.
func (f *Form) SetPeriod(p core.Period) {
	f.mu.Lock()
	f.period = p
	f.mu.Unlock()
}

// SetField stores one edit. Profile fields update the shared profile (the
// CNPJ is masked first); report fields update the current period.
func (f *Form) SetField(ctx context.Context, field, value string) error {
	if core.IsProfileField(field) {
		if field == core.FieldCNPJ {
			value = core.FormatCNPJ(value)
		}
		patch, err := core.ProfilePatchFor(field, value)
		if err != nil {
			return err
		}
		f.store.SetProfile(ctx, patch)
		return nil
	}

	patch, err := core.ReportPatchFor(field, value)
	if err != nil {
		return fmt.Errorf("%w: %q", err, field)
	}
	p := f.Period()
	if err := f.store.SetReport(ctx, p, patch); err != nil {
		return err
	}
	f.audit.LogReportSaved(ctx, p.String(), field, core.ComputeTotals(f.store.Report(p)).Geral)
	return nil
}

// SetSignatureDatePart replaces one part of the signature date, keeping the
// others. Missing parts default to the current year and "01".
func (f *Form) SetSignatureDatePart(ctx context.Context, part, value string) error {
	p := f.Period()
	year, month, day := splitDate(f.store.Report(p).DataAssinatura, f.now().Year())

	switch part {
	case DatePartDay:
		day = value
	case DatePartMonth:
		month = value
	case DatePartYear:
		year = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatePart, part)
	}
	date := year + "-" + month + "-" + day
	return f.store.SetReport(ctx, p, core.ReportPatch{DataAssinatura: &date})
}

func splitDate(date string, currentYear int) (year, month, day string) {
	year, month, day = strconv.Itoa(currentYear), "01", "01"
	parts := strings.Split(date, "-")
	if len(parts) > 0 && parts[0] != "" {
		year = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		month = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		day = parts[2]
	}
	return year, month, day
}
