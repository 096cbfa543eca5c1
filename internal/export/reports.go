package export

import (
	"io"

	"relatoriomei/internal/core"
)

const (
	periodTitle  = "RELATÓRIO MENSAL DAS RECEITAS BRUTAS - MEI"
	summaryTitle = "RELATÓRIOS MENSAIS DAS RECEITAS BRUTAS - MEI"
	summaryLabel = "RESUMO DE TODOS OS PERÍODOS"
)

// SummaryHeader is the column header of the all-periods layout.
var SummaryHeader = []string{
	"Período",
	"Comércio S/Doc", "Comércio C/Doc", "Total Comércio",
	"Indústria S/Doc", "Indústria C/Doc", "Total Indústria",
	"Serviços S/Doc", "Serviços C/Doc", "Total Serviços",
	"TOTAL GERAL", "Data Assinatura",
}

// WritePeriodCSV writes the single-period layout.
func WritePeriodCSV(w io.Writer, profile core.Profile, period core.Period, r core.Report) error {
	t := core.ComputeTotals(r)
	s := newCSVStreamer(w)
	rows := [][]string{
		{periodTitle},
		{},
		{"CNPJ", profile.CNPJ},
		{"Nome Empresarial", profile.Nome},
		{"Período de Apuração", period.Label()},
		{},
		{"RECEITAS", "Sem Documento Fiscal", "Com Documento Fiscal", "Total"},
		{"Comércio", r.ComercioSemDoc, r.ComercioComDoc, t.Comercio},
		{"Indústria", r.IndustriaSemDoc, r.IndustriaComDoc, t.Industria},
		{"Serviços", r.ServicosSemDoc, r.ServicosComDoc, t.Servicos},
		{},
		{"TOTAL GERAL", "", "", t.Geral},
		{},
		{"Local", profile.Local},
		{"Data", r.DataAssinatura},
	}
	for _, row := range rows {
		if err := s.writeRow(row...); err != nil {
			return err
		}
	}
	return s.Close()
}

// SummaryRow is one line of the all-periods layout.
func SummaryRow(pr core.PeriodReport) []string {
	r := pr.Report
	t := core.ComputeTotals(r)
	return []string{
		pr.Period.ShortLabel(),
		r.ComercioSemDoc, r.ComercioComDoc, t.Comercio,
		r.IndustriaSemDoc, r.IndustriaComDoc, t.Industria,
		r.ServicosSemDoc, r.ServicosComDoc, t.Servicos,
		t.Geral,
		r.DataAssinatura,
	}
}

// SummaryTotalsRow sums the category totals of every report.
func SummaryTotalsRow(reports []core.PeriodReport) []string {
	var acc core.Accumulator
	for _, pr := range reports {
		acc.Add(core.ComputeTotals(pr.Report))
	}
	t := acc.Totals()
	return []string{
		"TOTAIS",
		"", "", t.Comercio,
		"", "", t.Industria,
		"", "", t.Servicos,
		t.Geral,
		"",
	}
}

func summaryPreamble(profile core.Profile) [][]string {
	return [][]string{
		{summaryTitle},
		{},
		{"CNPJ", profile.CNPJ},
		{"Nome Empresarial", profile.Nome},
		{"Local", profile.Local},
		{},
		{summaryLabel},
		{},
		SummaryHeader,
	}
}

// WriteAllPeriodsCSV writes the all-periods layout for reports, which are
// expected in ascending period order.
func WriteAllPeriodsCSV(w io.Writer, profile core.Profile, reports []core.PeriodReport) error {
	s := newCSVStreamer(w)
	for _, row := range summaryPreamble(profile) {
		if err := s.writeRow(row...); err != nil {
			return err
		}
	}
	for _, pr := range reports {
		if err := s.writeRow(SummaryRow(pr)...); err != nil {
			return err
		}
	}
	if err := s.writeRow(); err != nil {
		return err
	}
	if err := s.writeRow(SummaryTotalsRow(reports)...); err != nil {
		return err
	}
	return s.Close()
}
