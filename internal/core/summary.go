package core

import "github.com/shopspring/decimal"

// Totals holds the derived aggregates of one report, two-decimal strings.
type Totals struct {
	Comercio  string
	Industria string
	Servicos  string
	Geral     string
}

// ComputeTotals derives the category totals and grand total of r.
func ComputeTotals(r Report) Totals {
	t := Totals{
		Comercio:  CategoryTotal(r.ComercioSemDoc, r.ComercioComDoc),
		Industria: CategoryTotal(r.IndustriaSemDoc, r.IndustriaComDoc),
		Servicos:  CategoryTotal(r.ServicosSemDoc, r.ServicosComDoc),
	}
	t.Geral = GrandTotal(t.Comercio, t.Industria, t.Servicos)
	return t
}

// Accumulator sums totals across several periods.
type Accumulator struct {
	comercio  decimal.Decimal
	industria decimal.Decimal
	servicos  decimal.Decimal
}

// Add folds t into the running sums.
func (a *Accumulator) Add(t Totals) {
	a.comercio = a.comercio.Add(ParseAmount(t.Comercio))
	a.industria = a.industria.Add(ParseAmount(t.Industria))
	a.servicos = a.servicos.Add(ParseAmount(t.Servicos))
}

// Totals returns the accumulated sums.
func (a *Accumulator) Totals() Totals {
	t := Totals{
		Comercio:  FormatAmount(a.comercio),
		Industria: FormatAmount(a.industria),
		Servicos:  FormatAmount(a.servicos),
	}
	t.Geral = GrandTotal(t.Comercio, t.Industria, t.Servicos)
	return t
}
