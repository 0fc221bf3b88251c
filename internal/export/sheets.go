// Package export pushes a user's expense history to a Google Sheets
// spreadsheet. The exporter is optional: without credentials the server
// starts fine and the export endpoint reports the feature unavailable.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendtrack/internal/core"
)

// ErrNotConfigured is returned when no credentials or spreadsheet were
// provided at startup.
var ErrNotConfigured = errors.New("sheets export not configured")

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Config carries the settings for the exporter. CredentialsJSON wins over
// CredentialsFile when both are set.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// NewSheetsExporter builds a service-account backed exporter. A config
// with no spreadsheet ID yields (nil, nil): callers treat a nil exporter
// as the feature being off.
func NewSheetsExporter(ctx context.Context, cfg Config) (*SheetsExporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, nil
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Expenses"
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// Export appends one row per expense (date, title, category, amount,
// description) and returns the number of rows written.
func (e *SheetsExporter) Export(ctx context.Context, expenses []core.Expense) (int, error) {
	if e == nil || e.svc == nil {
		return 0, ErrNotConfigured
	}
	if len(expenses) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(expenses))
	for _, exp := range expenses {
		rows = append(rows, []any{
			exp.Date.Format("2006-01-02"),
			exp.Title,
			string(exp.Category),
			exp.Amount.Float64(),
			exp.Description,
		})
	}

	rng := fmt.Sprintf("%s!A:E", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported expenses to Google Sheets",
		"rows", len(rows),
		"sheet", e.sheetName)

	return len(rows), nil
}
