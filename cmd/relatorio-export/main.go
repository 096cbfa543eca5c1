// Command relatorio-export writes the stored reports to a file without
// starting the web server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"relatoriomei/internal/cli"
	"relatoriomei/internal/core"
	"relatoriomei/internal/form"
	"relatoriomei/internal/log"
)

func main() {
	var (
		format   = flag.String("format", "csv", "export format: csv (all periods), period (one period as CSV) or xlsx")
		period   = flag.String("period", "", "period for -format period, as YYYY-MM (default: current month)")
		out      = flag.String("out", "", "output file (default: the standard export filename, - for stdout)")
		reminder = flag.Bool("reminder", false, "print the monthly calendar reminder URL and exit")
	)
	flag.Parse()

	cli.LoadEnvFile()
	// Logs go to stderr so -out - keeps stdout clean.
	logger := log.New(log.Config{Level: log.ParseLevel(os.Getenv("LOG_LEVEL")), Output: os.Stderr})
	log.SetDefault(logger)

	now := time.Now()
	selected := core.PeriodOf(now)
	if *period != "" {
		p, err := core.ParsePeriod(*period)
		if err != nil {
			logger.Error("Invalid -period", log.FieldPeriod, *period, log.FieldError, err)
			os.Exit(2)
		}
		selected = p
	}
	if *reminder {
		*format = formatReminder
	}

	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()
	st, backendRes := cli.OpenStore(ctx, logger, cfg)
	defer backendRes.Close()

	reportForm := form.New(st, selected, form.WithLogger(logger))
	host := &fileHost{path: *out, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(ctx, reportForm, *format, host); err != nil {
		logger.Error("Export failed", log.FieldFormat, *format, log.FieldError, err)
		backendRes.Close()
		os.Exit(1)
	}
	if host.written != "" {
		logger.Info("Export written", log.FieldFormat, *format, "path", host.written)
	}
}

const formatReminder = "reminder"

// run executes the form command matching format against host.
func run(ctx context.Context, actions form.Actions, format string, host *fileHost) error {
	var cmd func(context.Context, form.Host) error
	switch format {
	case "csv":
		cmd = actions.ExportCSV
	case "period":
		cmd = actions.ExportPeriodCSV
	case "xlsx":
		cmd = actions.ExportWorkbook
	case formatReminder:
		cmd = actions.AddMonthlyCalendarReminder
	default:
		return fmt.Errorf("unknown format %q (want csv, period or xlsx)", format)
	}
	if err := cmd(ctx, host); err != nil {
		return err
	}
	return host.err
}

// fileHost carries form command side effects to the terminal: downloads
// become files, URLs and alerts are printed.
type fileHost struct {
	path   string
	stdout io.Writer
	stderr io.Writer

	written string
	err     error
}

var _ form.Host = (*fileHost)(nil)

func (h *fileHost) OpenURL(url string) {
	fmt.Fprintln(h.stdout, url)
}

func (h *fileHost) Print() {
	h.err = errors.New("printing needs the web page")
}

func (h *fileHost) Download(filename, _ string, data []byte) {
	target := h.path
	if target == "" {
		target = filename
	}
	if target == "-" {
		_, h.err = h.stdout.Write(data)
		return
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		h.err = fmt.Errorf("write %s: %w", target, err)
		return
	}
	h.written = target
}

func (h *fileHost) Alert(message string) {
	fmt.Fprintln(h.stderr, message)
}

func (h *fileHost) ConfirmOpen(prompt, url string) {
	fmt.Fprintf(h.stderr, "%s\n%s\n", prompt, url)
}
