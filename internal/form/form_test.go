package form

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"relatoriomei/internal/core"
	"relatoriomei/internal/export"
	"relatoriomei/internal/log"
	"relatoriomei/internal/storage"
	"relatoriomei/internal/store"
)

type download struct {
	name, contentType string
	data              []byte
}

type fakeHost struct {
	opened    []string
	prints    int
	downloads []download
	alerts    []string
	confirms  []string
}

func (h *fakeHost) OpenURL(url string) { h.opened = append(h.opened, url) }
func (h *fakeHost) Print() { h.prints++ }
func (h *fakeHost) Download(name, ct string, data []byte) {
	h.downloads = append(h.downloads, download{name, ct, data})
}
func (h *fakeHost) Alert(msg string) { h.alerts = append(h.alerts, msg) }
func (h *fakeHost) ConfirmOpen(prompt, u string) { h.confirms = append(h.confirms, prompt+"|"+u) }

var (
	now   = func() time.Time { return time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC) }
	march = core.Period{Year: 2024, Month: 3}
	ctxBg = context.Background()
)

func setup(t *testing.T) (*Form, *store.Store) {
	t.Helper()
	s := store.New(ctxBg, storage.NewMemorySlot(nil), store.WithLogger(log.Discard()), store.WithClock(now))
	f := New(s, march,
		WithClock(now),
		WithLogger(log.Discard()),
		WithSampleGenerator(core.NewSampleGenerator(rand.New(rand.NewPCG(7, 11)), now)))
	return f, s
}

func TestSetFieldRoutesProfileAndReport(t *testing.T) {
	f, s := setup(t)

	require.NoError(t, f.SetField(ctxBg, core.FieldCNPJ, "12345678000190"))
	require.NoError(t, f.SetField(ctxBg, core.FieldNome, "Ana"))
	require.NoError(t, f.SetField(ctxBg, core.FieldComercioSemDoc, "2500.00"))

	assert.Equal(t, "12.345.678/0001-90", s.Profile().CNPJ)
	assert.Equal(t, "Ana", s.Profile().Nome)
	assert.Equal(t, "2500.00", s.Report(march).ComercioSemDoc)

	f.SetPeriod(core.Period{Year: 2024, Month: 4})
	assert.Equal(t, "Ana", f.View().Profile.Nome, "profile is shared across periods")
	assert.Equal(t, "0.00", f.View().Report.ComercioSemDoc)
}

func TestSetFieldUnknown(t *testing.T) {
	f, _ := setup(t)
	assert.ErrorIs(t, f.SetField(ctxBg, "periodo", "2024-01"), ErrUnknownField)
}

func TestSignatureDateParts(t *testing.T) {
	f, s := setup(t)

	require.NoError(t, f.SetSignatureDatePart(ctxBg, DatePartDay, "15"))
	assert.Equal(t, "2024-01-15", s.Report(march).DataAssinatura)

	require.NoError(t, f.SetSignatureDatePart(ctxBg, DatePartMonth, "03"))
	require.NoError(t, f.SetSignatureDatePart(ctxBg, DatePartYear, "2023"))
	assert.Equal(t, "2023-03-15", s.Report(march).DataAssinatura)

	assert.ErrorIs(t, f.SetSignatureDatePart(ctxBg, "hour", "1"), ErrUnknownDatePart)

	v := f.View()
	selected := func(opts []SelectOption) string {
		for _, o := range opts {
			if o.Selected {
				return o.Value
			}
		}
		return ""
	}
	assert.Equal(t, "15", selected(v.Days))
	assert.Equal(t, "03", selected(v.Months))
	assert.Equal(t, "2023", selected(v.Years))
}

func TestViewTotals(t *testing.T) {
	f, _ := setup(t)
	for field, v := range map[string]string{
		core.FieldComercioSemDoc: "2500.00",
		core.FieldComercioComDoc: "5800.00",
		core.FieldServicosSemDoc: "1200.00",
		core.FieldServicosComDoc: "3500.00",
	} {
		require.NoError(t, f.SetField(ctxBg, field, v))
	}
	v := f.View()
	assert.Equal(t, "13000.00", v.Totals.Geral)
	assert.Equal(t, "13.000,00", v.GrandTotal)
	assert.Equal(t, "8.300,00", v.Categories[0].TotalDisplay)
	assert.Equal(t, "Março de 2024", v.PeriodLabel)
	assert.Len(t, v.Years, 10)
	assert.Equal(t, "2019", v.Years[0].Value)
}

func TestGenerateSampleData(t *testing.T) {
	f, s := setup(t)
	require.NoError(t, f.GenerateSampleData(ctxBg, &fakeHost{}))

	assert.Contains(t, core.SampleProfiles(), s.Profile())
	r := s.Report(march)
	assert.True(t, r.HasData())
	assert.Equal(t, "2024-04-15", r.DataAssinatura)
}

func TestReminderAndPrint(t *testing.T) {
	f, _ := setup(t)
	h := &fakeHost{}
	require.NoError(t, f.AddMonthlyCalendarReminder(ctxBg, h))
	require.NoError(t, f.PrintReport(ctxBg, h))

	require.Len(t, h.opened, 1)
	assert.Equal(t, export.CalendarReminderURL(now()), h.opened[0])
	assert.Equal(t, 1, h.prints)
}

func TestExportCSVWithoutData(t *testing.T) {
	f, _ := setup(t)
	h := &fakeHost{}

	assert.ErrorIs(t, f.ExportCSV(ctxBg, h), ErrNoFilledReports)
	assert.ErrorIs(t, f.ExportWorkbook(ctxBg, h), ErrNoFilledReports)
	assert.Equal(t, []string{NoReportsMessage, NoReportsMessage}, h.alerts)
	assert.Empty(t, h.downloads)
}

func TestExportCSV(t *testing.T) {
	f, _ := setup(t)
	require.NoError(t, f.SetField(ctxBg, core.FieldServicosComDoc, "10"))
	h := &fakeHost{}

	require.NoError(t, f.ExportCSV(ctxBg, h))
	require.Len(t, h.downloads, 1)
	d := h.downloads[0]
	assert.Equal(t, "relatorios-mei-completo-2024-04-15.csv", d.name)
	assert.Equal(t, export.CSVContentType, d.contentType)
	assert.Contains(t, string(d.data), `"Março/2024"`)
	assert.Empty(t, h.alerts)
}

func TestExportWorkbook(t *testing.T) {
	f, _ := setup(t)
	require.NoError(t, f.SetField(ctxBg, core.FieldServicosComDoc, "10"))
	h := &fakeHost{}

	require.NoError(t, f.ExportWorkbook(ctxBg, h))
	require.Len(t, h.downloads, 1)
	assert.True(t, strings.HasSuffix(h.downloads[0].name, ".xlsx"))
	wb, err := excelize.OpenReader(bytes.NewReader(h.downloads[0].data))
	require.NoError(t, err)
	defer wb.Close()
	v, err := wb.GetCellValue(export.WorkbookSheet, "A10")
	require.NoError(t, err)
	assert.Equal(t, "Março/2024", v)
}

func TestExportToSpreadsheetService(t *testing.T) {
	f, _ := setup(t)
	h := &fakeHost{}

	require.NoError(t, f.ExportToSpreadsheetService(ctxBg, h))
	require.Len(t, h.downloads, 1)
	assert.Equal(t, "relatorio-mei-2024-03.csv", h.downloads[0].name)
	require.Len(t, h.confirms, 1)
	assert.Equal(t, export.SpreadsheetImportPrompt+"|"+export.SpreadsheetCreateURL, h.confirms[0])
	assert.Empty(t, h.opened, "the spreadsheet opens only after the user confirms")
}
