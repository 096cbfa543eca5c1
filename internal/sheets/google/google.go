package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"relatoriomei/internal/cache"
	"relatoriomei/internal/config"
	"relatoriomei/internal/core"
	ports "relatoriomei/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// valueInput keeps amounts as the exact strings the store holds.
const valueInput = "RAW"

// rowCacheTTL bounds how long a row lookup is trusted; the sheet can be
// edited by hand.
const rowCacheTTL = 10 * time.Minute

var errNoService = errors.New("sheets service not initialized")

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	// mu serialises row lookup and write so concurrent upserts of new
	// periods never claim the same blank row.
	mu   sync.Mutex
	rows *cache.LRU[int]
}

// Ensure interface conformance
var _ ports.ReportPublisher = (*Client)(nil)

// Options configures a Client.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// NewFromConfig creates a Sheets client from the application config.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	return New(ctx, Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		return nil, errors.New("missing GOOGLE_SHEET_NAME")
	}

	credentials, err := readCredentials(ctx, opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID, "sheet", sheetName)
	return newClient(svc, spreadsheetID, sheetName), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rows:          cache.NewLRU[int](240, rowCacheTTL),
	}
}

// readCredentials prefers inline JSON, then the file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func readCredentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account credentials", "path", file, "size", len(data))
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// newHTTPClientWithPooling creates an HTTP client for the Sheets API with
// connection pooling and bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// WriteProfile writes the profile block and the column header.
func (c *Client) WriteProfile(ctx context.Context, profile core.Profile) error {
	if c.svc == nil {
		return errNoService
	}
	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: valueInput,
		Data: []*gsheet.ValueRange{
			{Range: fmt.Sprintf("%s!%s", c.sheetName, profileRows), Values: profileValues(profile)},
			{Range: rowRange(c.sheetName, headerRow), Values: [][]any{headerValues()}},
		},
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write profile to sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// UpsertPeriod implements ports.ReportWriter
func (c *Client) UpsertPeriod(ctx context.Context, pr core.PeriodReport) error {
	if c.svc == nil {
		return errNoService
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	row, _, err := c.findRow(ctx, pr.Period)
	if err != nil {
		return err
	}
	rng := rowRange(c.sheetName, row)
	vr := &gsheet.ValueRange{Values: [][]any{periodValues(pr)}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInput).Context(ctx).Do(); err != nil {
		c.rows.Delete(pr.Period.String())
		return fmt.Errorf("update %s: %w", rng, err)
	}
	c.rows.Set(pr.Period.String(), row)
	return nil
}

// DeletePeriod implements ports.ReportDeleter
func (c *Client) DeletePeriod(ctx context.Context, p core.Period) error {
	if c.svc == nil {
		return errNoService
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	row, found, err := c.findRow(ctx, p)
	if err != nil || !found {
		return err
	}
	c.rows.Delete(p.String())
	rng := rowRange(c.sheetName, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// findRow returns the row holding p, or the row a new period should use.
// Every key read from the sheet is cached. Caller must hold mu.
func (c *Client) findRow(ctx context.Context, p core.Period) (int, bool, error) {
	if row, ok := c.rows.Get(p.String()); ok {
		return row, true, nil
	}
	rng := keyRange(c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", rng, err)
	}
	for key, row := range keyRows(resp.Values) {
		c.rows.Set(key, row)
	}
	row, found := locateRow(resp.Values, p.String())
	return row, found, nil
}
