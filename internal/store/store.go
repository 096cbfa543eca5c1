// Package store keeps the business profile and the monthly reports keyed by
// period, persisted as one JSON blob in a storage slot.
//
// Every mutation rewrites the whole blob before returning. A failing slot
// write is logged and the in-memory state stays authoritative, so callers
// never see persistence errors.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
	"relatoriomei/internal/storage"
)

// StartYear is the first year offered by Years.
const StartYear = 2020

// ChangeListener is notified after a mutation has been applied.
type ChangeListener interface {
	OnReportChanged(ctx context.Context, period core.Period) error
	OnPeriodDeleted(ctx context.Context, period core.Period) error
	OnProfileChanged(ctx context.Context) error
}

// blob is the persisted document.
type blob struct {
	Perfil     core.Profile           `json:"perfil"`
	Relatorios map[string]core.Report `json:"relatorios"`
}

// rawBlob defers report decoding so missing fields can default per report.
type rawBlob struct {
	Perfil     json.RawMessage            `json:"perfil"`
	Relatorios map[string]json.RawMessage `json:"relatorios"`
}

// Store is safe for concurrent use.
type Store struct {
	slot     storage.Slot
	logger   *log.Logger
	now      func() time.Time
	listener ChangeListener

	mu      sync.RWMutex
	profile core.Profile
	reports map[core.Period]core.Report
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used by Years.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithListener registers a change listener.
func WithListener(l ChangeListener) Option {
	return func(s *Store) { s.listener = l }
}

// New loads the slot once. An unreadable or corrupted slot yields defaults.
func New(ctx context.Context, slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		now:     time.Now,
		profile: core.DefaultProfile,
		reports: make(map[core.Period]core.Report),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentStore})
	}
	if err := s.Reload(ctx); err != nil {
		s.logger.WarnContext(ctx, "Falling back to empty reports", log.FieldError, err)
	}
	return s
}

// SetListener replaces the change listener after construction.
func (s *Store) SetListener(l ChangeListener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// Reload re-reads the slot. On error the current state is kept.
func (s *Store) Reload(ctx context.Context) error {
	data, err := s.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	profile, reports, err := decode(data, s.logger)
	if err != nil {
		return fmt.Errorf("decode slot: %w", err)
	}
	s.mu.Lock()
	s.profile = profile
	s.reports = reports
	s.mu.Unlock()
	return nil
}

func decode(data []byte, logger *log.Logger) (core.Profile, map[core.Period]core.Report, error) {
	reports := make(map[core.Period]core.Report)
	if len(data) == 0 {
		return core.DefaultProfile, reports, nil
	}
	var raw rawBlob
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.DefaultProfile, nil, err
	}

	profile := core.DefaultProfile
	if len(raw.Perfil) > 0 && string(raw.Perfil) != "null" {
		if err := json.Unmarshal(raw.Perfil, &profile); err != nil {
			return core.DefaultProfile, nil, fmt.Errorf("perfil: %w", err)
		}
	}
	for key, msg := range raw.Relatorios {
		p, err := core.ParsePeriod(key)
		if err != nil {
			logger.Warn("Ignoring stored report with invalid period", log.FieldPeriod, key)
			continue
		}
		r := core.DefaultReport
		if err := json.Unmarshal(msg, &r); err != nil {
			logger.Warn("Ignoring unreadable stored report", log.FieldPeriod, key, log.FieldError, err)
			continue
		}
		reports[p] = r
	}
	return profile, reports, nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	b := blob{Perfil: s.profile, Relatorios: make(map[string]core.Report, len(s.reports))}
	for p, r := range s.reports {
		b.Relatorios[p.String()] = r
	}
	data, err := json.Marshal(b)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode reports", log.FieldError, err)
		return
	}
	// Memory already holds the change, so the write outlives a cancelled request.
	if err := s.slot.Save(context.WithoutCancel(ctx), data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist reports", log.FieldOperation, log.OpSave, log.FieldError, err)
	}
}

// Profile returns the current profile.
func (s *Store) Profile() core.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile merges patch into the profile and persists.
func (s *Store) SetProfile(ctx context.Context, patch core.ProfilePatch) {
	s.mu.Lock()
	s.profile = s.profile.Merge(patch)
	s.persist(ctx)
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		if err := l.OnProfileChanged(ctx); err != nil {
			s.logger.WarnContext(ctx, "Profile change listener failed", log.FieldError, err)
		}
	}
}

// Report returns the stored report for p, or core.DefaultReport.
func (s *Store) Report(p core.Period) core.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.reports[p]; ok {
		return r
	}
	return core.DefaultReport
}

// SetReport merges patch into the report of p (or the default) and persists.
func (s *Store) SetReport(ctx context.Context, p core.Period, patch core.ReportPatch) error {
	if _, err := core.NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	s.mu.Lock()
	cur, ok := s.reports[p]
	if !ok {
		cur = core.DefaultReport
	}
	s.reports[p] = cur.Merge(patch)
	s.persist(ctx)
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		if err := l.OnReportChanged(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "Report change listener failed", log.FieldPeriod, p.String(), log.FieldError, err)
		}
	}
	return nil
}

// HasData reports whether the report of p has any positive revenue amount.
func (s *Store) HasData(p core.Period) bool {
	return s.Report(p).HasData()
}

// Years returns StartYear through next year, ascending.
func (s *Store) Years() []int {
	last := s.now().Year() + 1
	if last < StartYear {
		return nil
	}
	years := make([]int, 0, last-StartYear+1)
	for y := StartYear; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// DeletePeriod removes the report of p. Deleting a missing period is a no-op
// apart from the rewrite.
func (s *Store) DeletePeriod(ctx context.Context, p core.Period) error {
	if _, err := core.NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.reports, p)
	s.persist(ctx)
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		if err := l.OnPeriodDeleted(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "Period delete listener failed", log.FieldPeriod, p.String(), log.FieldError, err)
		}
	}
	return nil
}

// DeleteYear removes every report of year and returns the removed periods.
func (s *Store) DeleteYear(ctx context.Context, year int) []core.Period {
	s.mu.Lock()
	var removed []core.Period
	for p := range s.reports {
		if p.Year == year {
			removed = append(removed, p)
			delete(s.reports, p)
		}
	}
	s.persist(ctx)
	l := s.listener
	s.mu.Unlock()

	sortPeriods(removed)
	if l != nil {
		for _, p := range removed {
			if err := l.OnPeriodDeleted(ctx, p); err != nil {
				s.logger.WarnContext(ctx, "Period delete listener failed", log.FieldPeriod, p.String(), log.FieldError, err)
			}
		}
	}
	return removed
}

// FilledReports returns the reports with data, in ascending period order.
func (s *Store) FilledReports() []core.PeriodReport {
	s.mu.RLock()
	out := make([]core.PeriodReport, 0, len(s.reports))
	for p, r := range s.reports {
		if r.HasData() {
			out = append(out, core.PeriodReport{Period: p, Report: r})
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Period.String() < out[j].Period.String() })
	return out
}

// FilledMonths counts the months of year with data.
func (s *Store) FilledMonths(year int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for p, r := range s.reports {
		if p.Year == year && r.HasData() {
			n++
		}
	}
	return n
}

func sortPeriods(ps []core.Period) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].String() < ps[j].String() })
}
