// Package navigator implements the year strip and month grid used to pick
// the period being edited, including the delete confirmations and the
// responsive year window.
package navigator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"relatoriomei/internal/core"
)

// DefaultFade is the duration of each half of the year-switch animation.
const DefaultFade = 150 * time.Millisecond

// Store is the subset of the report store the navigator needs.
type Store interface {
	Years() []int
	HasData(p core.Period) bool
	FilledMonths(year int) int
	DeletePeriod(ctx context.Context, p core.Period) error
	DeleteYear(ctx context.Context, year int) []core.Period
}

// Navigator is safe for concurrent use.
type Navigator struct {
	store    Store
	onChange func(core.Period)
	fadeOut  time.Duration
	fadeIn   time.Duration

	mu             sync.Mutex
	selectedYear   int
	selectedMonth  int
	targetYear     int
	transitioning  bool
	windowStart    int
	windowSize     int
	pendingPeriod  core.Period
	pendingYear    int
	pendingPresent bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithFade sets the fade-out and fade-in delays used by SwitchYear.
func WithFade(out, in time.Duration) Option {
	return func(n *Navigator) {
		n.fadeOut = out
		n.fadeIn = in
	}
}

// WithOnChange registers the period-change callback. It runs outside the
// navigator lock.
func WithOnChange(fn func(core.Period)) Option {
	return func(n *Navigator) { n.onChange = fn }
}

// New starts the navigator on the initial period with the widest window.
func New(store Store, initial core.Period, opts ...Option) *Navigator {
	n := &Navigator{
		store:         store,
		fadeOut:       DefaultFade,
		fadeIn:        DefaultFade,
		selectedYear:  initial.Year,
		selectedMonth: initial.Month,
		windowSize:    WindowSize(1 << 20),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WindowSize maps a viewport width in pixels to the number of visible years.
func WindowSize(width int) int {
	switch {
	case width < 360:
		return 4
	case width < 480:
		return 5
	case width < 640:
		return 6
	default:
		return 10
	}
}

// Selected returns the selected period.
func (n *Navigator) Selected() core.Period {
	n.mu.Lock()
	defer n.mu.Unlock()
	return core.Period{Year: n.selectedYear, Month: n.selectedMonth}
}

// SetPeriod syncs the selection with a period chosen elsewhere. It does not
// emit a change.
func (n *Navigator) SetPeriod(p core.Period) {
	n.mu.Lock()
	n.selectedYear, n.selectedMonth = p.Year, p.Month
	n.transitioning = false
	n.mu.Unlock()
}

// SelectYear starts a year switch. Selecting the current year is a no-op
// and reports false.
func (n *Navigator) SelectYear(year int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if year == n.selectedYear {
		return false
	}
	n.targetYear = year
	n.transitioning = true
	return true
}

// Settle completes a pending year switch and emits the new period.
func (n *Navigator) Settle() {
	n.mu.Lock()
	if !n.transitioning {
		n.mu.Unlock()
		return
	}
	n.selectedYear = n.targetYear
	n.transitioning = false
	p := core.Period{Year: n.selectedYear, Month: n.selectedMonth}
	n.mu.Unlock()

	n.emit(p)
}

// SwitchYear runs SelectYear, waits for the fade-out, settles, then waits for
// the fade-in. A cancelled ctx during the fade-out abandons the switch.
func (n *Navigator) SwitchYear(ctx context.Context, year int) error {
	if !n.SelectYear(year) {
		return nil
	}
	if err := sleep(ctx, n.fadeOut); err != nil {
		n.mu.Lock()
		n.transitioning = false
		n.mu.Unlock()
		return err
	}
	n.Settle()
	return sleep(ctx, n.fadeIn)
}

// SelectMonth selects month within the selected year and emits the period.
func (n *Navigator) SelectMonth(month int) error {
	n.mu.Lock()
	p, err := core.NewPeriod(n.selectedYear, month)
	if err != nil {
		n.mu.Unlock()
		return err
	}
	n.selectedMonth = month
	n.mu.Unlock()

	n.emit(p)
	return nil
}

// RequestDeletePeriod opens the confirmation for clearing one month.
func (n *Navigator) RequestDeletePeriod(p core.Period) error {
	if _, err := core.NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	n.mu.Lock()
	n.pendingPeriod = p
	n.pendingYear = 0
	n.pendingPresent = true
	n.mu.Unlock()
	return nil
}

// RequestDeleteYear opens the confirmation for clearing a whole year.
func (n *Navigator) RequestDeleteYear(year int) {
	n.mu.Lock()
	n.pendingPeriod = core.Period{}
	n.pendingYear = year
	n.pendingPresent = true
	n.mu.Unlock()
}

// CancelDelete closes any open confirmation without side effects.
func (n *Navigator) CancelDelete() {
	n.mu.Lock()
	n.clearPending()
	n.mu.Unlock()
}

func (n *Navigator) clearPending() {
	n.pendingPeriod = core.Period{}
	n.pendingYear = 0
	n.pendingPresent = false
}

// ConfirmDelete performs the pending deletion and closes the confirmation.
// With nothing pending it does nothing.
func (n *Navigator) ConfirmDelete(ctx context.Context) error {
	n.mu.Lock()
	if !n.pendingPresent {
		n.mu.Unlock()
		return nil
	}
	period, year := n.pendingPeriod, n.pendingYear
	n.clearPending()
	n.mu.Unlock()

	if year != 0 {
		n.store.DeleteYear(ctx, year)
		return nil
	}
	if err := n.store.DeletePeriod(ctx, period); err != nil {
		return fmt.Errorf("delete period %s: %w", period, err)
	}
	return nil
}

// ScrollLeft moves the year window one position earlier.
func (n *Navigator) ScrollLeft() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.windowStart > 0 {
		n.windowStart--
	}
}

// ScrollRight moves the year window one position later.
func (n *Navigator) ScrollRight() {
	years := n.store.Years()
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.windowStart+1 <= maxStart(len(years), n.windowSize) {
		n.windowStart++
	}
}

// Resize recomputes the window size for width and clamps the window start.
func (n *Navigator) Resize(width int) int {
	years := n.store.Years()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.windowSize = WindowSize(width)
	if m := maxStart(len(years), n.windowSize); n.windowStart > m {
		n.windowStart = m
	}
	return n.windowSize
}

func maxStart(total, size int) int {
	if total <= size {
		return 0
	}
	return total - size
}

func (n *Navigator) emit(p core.Period) {
	if n.onChange != nil {
		n.onChange(p)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
