// Package memory is an in-process ReportPublisher used by tests and by the
// worker when no spreadsheet is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"relatoriomei/internal/core"
	ports "relatoriomei/internal/sheets"
)

type Publisher struct {
	mu      sync.Mutex
	profile core.Profile
	rows    map[core.Period]core.Report
	writes  int
	err     error
}

var _ ports.ReportPublisher = (*Publisher)(nil)

func New() *Publisher {
	return &Publisher{rows: make(map[core.Period]core.Report)}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (p *Publisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *Publisher) UpsertPeriod(_ context.Context, pr core.PeriodReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.rows[pr.Period] = pr.Report
	p.writes++
	return nil
}

func (p *Publisher) DeletePeriod(_ context.Context, period core.Period) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	delete(p.rows, period)
	p.writes++
	return nil
}

func (p *Publisher) WriteProfile(_ context.Context, profile core.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.profile = profile
	p.writes++
	return nil
}

// Profile returns the last written profile.
func (p *Publisher) Profile() core.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// Row returns the published report of period.
func (p *Publisher) Row(period core.Period) (core.Report, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.rows[period]
	return r, ok
}

// Periods lists the published periods in ascending order.
func (p *Publisher) Periods() []core.Period {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.Period, 0, len(p.rows))
	for k := range p.rows {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Writes counts successful calls.
func (p *Publisher) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}
