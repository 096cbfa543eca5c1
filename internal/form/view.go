package form

import (
	"fmt"
	"strings"

	"relatoriomei/internal/core"
)

// SelectOption is one choice of a signature date selector.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// CategoryView is one revenue row of the rendered form.
type CategoryView struct {
	Label          string
	WithoutDocName string
	WithDocName    string
	WithoutDoc     string
	WithDoc        string
	Total          string
	TotalDisplay   string
}

// View is the render model of the form for the current period.
type View struct {
	Period      core.Period
	PeriodLabel string
	Profile     core.Profile
	Report      core.Report
	Totals      core.Totals
	Categories  []CategoryView
	GrandTotal  string
	Days        []SelectOption
	Months      []SelectOption
	Years       []SelectOption
}

// View snapshots the form for rendering.
func (f *Form) View() View {
	p := f.Period()
	r := f.store.Report(p)
	t := core.ComputeTotals(r)

	v := View{
		Period:      p,
		PeriodLabel: p.Label(),
		Profile:     f.store.Profile(),
		Report:      r,
		Totals:      t,
		GrandTotal:  core.FormatCurrencyDisplay(t.Geral),
		Categories: []CategoryView{
			{Label: "Comércio", WithoutDocName: core.FieldComercioSemDoc, WithDocName: core.FieldComercioComDoc,
				WithoutDoc: r.ComercioSemDoc, WithDoc: r.ComercioComDoc, Total: t.Comercio, TotalDisplay: core.FormatCurrencyDisplay(t.Comercio)},
			{Label: "Indústria", WithoutDocName: core.FieldIndustriaSemDoc, WithDocName: core.FieldIndustriaComDoc,
				WithoutDoc: r.IndustriaSemDoc, WithDoc: r.IndustriaComDoc, Total: t.Industria, TotalDisplay: core.FormatCurrencyDisplay(t.Industria)},
			{Label: "Serviços", WithoutDocName: core.FieldServicosSemDoc, WithDocName: core.FieldServicosComDoc,
				WithoutDoc: r.ServicosSemDoc, WithDoc: r.ServicosComDoc, Total: t.Servicos, TotalDisplay: core.FormatCurrencyDisplay(t.Servicos)},
		},
	}

	year, month, day := partsOf(r.DataAssinatura)
	for d := 1; d <= 31; d++ {
		val := fmt.Sprintf("%02d", d)
		v.Days = append(v.Days, SelectOption{Value: val, Label: val, Selected: val == day})
	}
	for m := 1; m <= 12; m++ {
		val := fmt.Sprintf("%02d", m)
		v.Months = append(v.Months, SelectOption{Value: val, Label: core.MonthName(m), Selected: val == month})
	}
	for _, y := range SignatureYears(f.now().Year()) {
		val := fmt.Sprint(y)
		v.Years = append(v.Years, SelectOption{Value: val, Label: val, Selected: val == year})
	}
	return v
}

// SignatureYears lists the ten years offered for the signature date, from
// five years back to four ahead.
func SignatureYears(current int) []int {
	years := make([]int, 10)
	for i := range years {
		years[i] = current - 5 + i
	}
	return years
}

// partsOf splits a stored date without applying defaults, so unset selectors
// render empty.
func partsOf(date string) (year, month, day string) {
	parts := append(strings.SplitN(date, "-", 3), "", "", "")
	return parts[0], parts[1], parts[2]
}
