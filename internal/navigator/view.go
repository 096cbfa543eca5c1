package navigator

import (
	"fmt"

	"relatoriomei/internal/core"
)

// YearTab is one entry of the visible year strip.
type YearTab struct {
	Year     int
	Filled   int
	Selected bool
}

// MonthCell is one entry of the month grid.
type MonthCell struct {
	Month    int
	Abbrev   string
	Period   core.Period
	HasData  bool
	Selected bool
}

// Confirmation describes an open delete dialog.
type Confirmation struct {
	Title   string
	Message string
	Period  core.Period
	Year    int
}

// View is the render model of the navigator.
type View struct {
	Selected       core.Period
	Years          []YearTab
	Months         [12]MonthCell
	CanScrollLeft  bool
	CanScrollRight bool
	Transitioning  bool
	WindowSize     int
	Confirm        *Confirmation
}

// View snapshots the navigator for rendering.
func (n *Navigator) View() View {
	years := n.store.Years()

	n.mu.Lock()
	sel := core.Period{Year: n.selectedYear, Month: n.selectedMonth}
	start, size := n.windowStart, n.windowSize
	transitioning := n.transitioning
	pending, pPeriod, pYear := n.pendingPresent, n.pendingPeriod, n.pendingYear
	n.mu.Unlock()

	if start > maxStart(len(years), size) {
		start = maxStart(len(years), size)
	}
	end := start + size
	if end > len(years) {
		end = len(years)
	}

	v := View{
		Selected:       sel,
		CanScrollLeft:  start > 0,
		CanScrollRight: end < len(years),
		Transitioning:  transitioning,
		WindowSize:     size,
	}
	for _, y := range years[start:end] {
		v.Years = append(v.Years, YearTab{Year: y, Filled: n.store.FilledMonths(y), Selected: y == sel.Year})
	}
	for m := 1; m <= 12; m++ {
		p := core.Period{Year: sel.Year, Month: m}
		v.Months[m-1] = MonthCell{
			Month:    m,
			Abbrev:   core.MonthAbbrev(m),
			Period:   p,
			HasData:  n.store.HasData(p),
			Selected: m == sel.Month,
		}
	}
	if pending {
		v.Confirm = n.confirmation(pPeriod, pYear)
	}
	return v
}

func (n *Navigator) confirmation(p core.Period, year int) *Confirmation {
	if year != 0 {
		filled := n.store.FilledMonths(year)
		noun := "meses preenchidos"
		if filled == 1 {
			noun = "mês preenchido"
		}
		return &Confirmation{
			Title: "Limpar dados do ano?",
			Message: fmt.Sprintf("Tem certeza que deseja limpar todos os dados de %d? Isso removerá os dados de %d %s. Esta ação não pode ser desfeita.",
				year, filled, noun),
			Year: year,
		}
	}
	return &Confirmation{
		Title: "Limpar dados do mês?",
		Message: fmt.Sprintf("Tem certeza que deseja limpar os dados de %s/%d? Esta ação não pode ser desfeita.",
			core.MonthAbbrev(p.Month), p.Year),
		Period: p,
	}
}
