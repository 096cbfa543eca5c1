package export

import (
	"net/url"
	"strings"
	"time"

	"relatoriomei/internal/core"
)

// SpreadsheetCreateURL opens a new blank spreadsheet.
const SpreadsheetCreateURL = "https://docs.google.com/spreadsheets/create"

const calendarBase = "https://calendar.google.com/calendar/render"

// SpreadsheetImportPrompt is shown after the single-period CSV downloads.
const SpreadsheetImportPrompt = "O arquivo CSV foi baixado!\n\n" +
	"Deseja abrir o Google Sheets para importar o arquivo?\n\n" +
	"Instruções:\n" +
	"1. Clique em 'Arquivo' > 'Importar'\n" +
	"2. Selecione a aba 'Fazer upload'\n" +
	"3. Arraste o arquivo CSV baixado ou clique para selecionar\n" +
	"4. Clique em 'Importar dados'"

const (
	reminderTitle   = "📋 Preencher Relatório MEI - Receitas Brutas"
	reminderDetails = "Lembrete mensal para preencher o Relatório de Receitas Brutas do MEI.\n\n" +
		"🔗 Acesse o formulário online:\nhttps://relatoriomei.app.br\n\n" +
		"📝 Informações necessárias:\n" +
		"- Receitas de comércio (com e sem documento fiscal)\n" +
		"- Receitas de indústria (com e sem documento fiscal)\n" +
		"- Receitas de serviços (com e sem documento fiscal)\n\n" +
		"⚠️ Mantenha todos os documentos fiscais anexados ao relatório."
	reminderRecur = "RRULE:FREQ=MONTHLY;BYMONTHDAY=1"
)

// CalendarReminderURL builds a Google Calendar event-creation URL for a
// reminder recurring on day 1 of every month, starting on the first day of
// the month after now (midnight in now's location, rendered in UTC).
func CalendarReminderURL(now time.Time) string {
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	stamp := next.UTC().Format("20060102T150405Z")

	var b strings.Builder
	b.WriteString(calendarBase)
	b.WriteString("?action=TEMPLATE")
	b.WriteString("&text=" + url.QueryEscape(reminderTitle))
	b.WriteString("&dates=" + url.QueryEscape(stamp+"/"+stamp))
	b.WriteString("&details=" + url.QueryEscape(reminderDetails))
	b.WriteString("&recur=" + url.QueryEscape(reminderRecur))
	return b.String()
}

// PeriodFilename names the single-period CSV.
func PeriodFilename(p core.Period) string {
	return "relatorio-mei-" + p.String() + ".csv"
}

// AllPeriodsFilename names the all-periods CSV for the given export date.
func AllPeriodsFilename(now time.Time) string {
	return "relatorios-mei-completo-" + now.Format("2006-01-02") + ".csv"
}

// WorkbookFilename names the all-periods workbook for the given export date.
func WorkbookFilename(now time.Time) string {
	return "relatorios-mei-completo-" + now.Format("2006-01-02") + ".xlsx"
}
