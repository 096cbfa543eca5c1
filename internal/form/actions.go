package form

import (
	"bytes"
	"context"
	"fmt"

	"relatoriomei/internal/core"
	"relatoriomei/internal/export"
	"relatoriomei/internal/log"
)

// Host performs the side effects the commands ask for (opening URLs, the
// print dialog, file downloads, alerts and confirmations).
type Host interface {
	OpenURL(url string)
	Print()
	Download(filename, contentType string, data []byte)
	Alert(message string)
	ConfirmOpen(prompt, url string)
}

// Actions is the command interface exposed to the page.
type Actions interface {
	GenerateSampleData(ctx context.Context, host Host) error
	AddMonthlyCalendarReminder(ctx context.Context, host Host) error
	PrintReport(ctx context.Context, host Host) error
	ExportCSV(ctx context.Context, host Host) error
	ExportToSpreadsheetService(ctx context.Context, host Host) error
	ExportPeriodCSV(ctx context.Context, host Host) error
	ExportWorkbook(ctx context.Context, host Host) error
}

var _ Actions = (*Form)(nil)

// GenerateSampleData fills the profile and the current period with demo data.
func (f *Form) GenerateSampleData(ctx context.Context, _ Host) error {
	profile, r := f.sample.Generate()
	f.store.SetProfile(ctx, core.ProfilePatch{CNPJ: &profile.CNPJ, Nome: &profile.Nome, Local: &profile.Local})
	return f.store.SetReport(ctx, f.Period(), core.ReportPatch{
		ComercioSemDoc:  &r.ComercioSemDoc,
		ComercioComDoc:  &r.ComercioComDoc,
		IndustriaSemDoc: &r.IndustriaSemDoc,
		IndustriaComDoc: &r.IndustriaComDoc,
		ServicosSemDoc:  &r.ServicosSemDoc,
		ServicosComDoc:  &r.ServicosComDoc,
		DataAssinatura:  &r.DataAssinatura,
	})
}

// AddMonthlyCalendarReminder opens the calendar event-creation URL.
func (f *Form) AddMonthlyCalendarReminder(_ context.Context, host Host) error {
	host.OpenURL(export.CalendarReminderURL(f.now()))
	return nil
}

// PrintReport asks the host for its print dialog.
func (f *Form) PrintReport(_ context.Context, host Host) error {
	host.Print()
	return nil
}

// ExportCSV downloads every filled period as one CSV. With no filled period
// it alerts and returns ErrNoFilledReports.
func (f *Form) ExportCSV(ctx context.Context, host Host) error {
	reports, err := f.filled(host)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteAllPeriodsCSV(&buf, f.store.Profile(), reports); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	f.logger.InfoContext(ctx, "Exported all periods", log.FieldFormat, "csv", log.FieldCount, len(reports))
	host.Download(export.AllPeriodsFilename(f.now()), export.CSVContentType, buf.Bytes())
	return nil
}

// ExportWorkbook downloads every filled period as an XLSX workbook.
func (f *Form) ExportWorkbook(ctx context.Context, host Host) error {
	reports, err := f.filled(host)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, f.store.Profile(), reports); err != nil {
		return err
	}
	f.logger.InfoContext(ctx, "Exported all periods", log.FieldFormat, "xlsx", log.FieldCount, len(reports))
	host.Download(export.WorkbookFilename(f.now()), export.WorkbookContentType, buf.Bytes())
	return nil
}

// ExportPeriodCSV downloads the current period as CSV.
func (f *Form) ExportPeriodCSV(ctx context.Context, host Host) error {
	p := f.Period()
	data, err := f.periodCSV(p)
	if err != nil {
		return err
	}
	host.Download(export.PeriodFilename(p), export.CSVContentType, data)
	return nil
}

// ExportToSpreadsheetService downloads the current period as CSV and then
// offers to open a new spreadsheet for the manual import.
func (f *Form) ExportToSpreadsheetService(ctx context.Context, host Host) error {
	if err := f.ExportPeriodCSV(ctx, host); err != nil {
		return err
	}
	host.ConfirmOpen(export.SpreadsheetImportPrompt, export.SpreadsheetCreateURL)
	return nil
}

func (f *Form) periodCSV(p core.Period) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.WritePeriodCSV(&buf, f.store.Profile(), p, f.store.Report(p)); err != nil {
		return nil, fmt.Errorf("write period csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Form) filled(host Host) ([]core.PeriodReport, error) {
	reports := f.store.FilledReports()
	if len(reports) == 0 {
		host.Alert(NoReportsMessage)
		return nil, ErrNoFilledReports
	}
	return reports, nil
}
