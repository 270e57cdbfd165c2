package sheetdb

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNoCredential is returned by every mutation when the service
// credential is absent or malformed. The write path fails closed:
// there is no unauthenticated fallback.
var ErrNoCredential = errors.New("sheet write credential not configured")

// RowAPI is the narrow authenticated write surface the mutator needs.
// Rows and columns are 1-based, matching the spreadsheet convention.
type RowAPI interface {
	// Header returns the first row of the table.
	Header(table string) ([]string, error)

	// ColumnValues returns one column top to bottom, header included.
	ColumnValues(table string, col int) ([]string, error)

	// AppendRows adds rows after the last non-empty row, in one call.
	AppendRows(table string, rows [][]string) error

	// UpdateCell writes a single cell.
	UpdateCell(table string, row, col int, value string) error

	// Replace clears the table and writes all rows (header first).
	Replace(table string, rows [][]string) error
}

// Client talks to the spreadsheet through the authenticated Sheets API.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	registry      *Registry
}

// NewClient authenticates with the service-account blob. An empty
// credential is rejected up front so a misconfigured deployment cannot
// silently run in a weaker mode.
func NewClient(ctx context.Context, spreadsheetID string, credentialsJSON []byte, registry *Registry) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, ErrNoCredential
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, registry: registry}, nil
}

func (c *Client) tab(table string) (string, error) {
	info, ok := c.registry.Lookup(table)
	if !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}
	return info.Tab, nil
}

// Header returns the first row of the table.
func (c *Client) Header(table string) ([]string, error) {
	tab, err := c.tab(table)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, fmt.Sprintf("%s!1:1", tab)).Do()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("table %s has no header row", table)
	}
	return toStrings(resp.Values[0]), nil
}

// ColumnValues returns one column top to bottom.
func (c *Client) ColumnValues(table string, col int) ([]string, error) {
	tab, err := c.tab(table)
	if err != nil {
		return nil, err
	}

	letter := columnLetter(col)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, fmt.Sprintf("%s!%s:%s", tab, letter, letter)).
		MajorDimension("COLUMNS").Do()
	if err != nil {
		return nil, fmt.Errorf("reading column %s of %s: %w", letter, table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

// AppendRows adds rows at the end of the table in a single round-trip.
func (c *Client) AppendRows(table string, rows [][]string) error {
	tab, err := c.tab(table)
	if err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: toInterfaces(rows)}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").Do()
	if err != nil {
		return fmt.Errorf("appending to %s: %w", table, err)
	}
	return nil
}

// UpdateCell writes a single cell.
func (c *Client) UpdateCell(table string, row, col int, value string) error {
	tab, err := c.tab(table)
	if err != nil {
		return err
	}

	target := fmt.Sprintf("%s!%s%d", tab, columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, vr).
		ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", target, err)
	}
	return nil
}

// Replace clears the table and writes all rows back, header first.
func (c *Client) Replace(table string, rows [][]string) error {
	tab, err := c.tab(table)
	if err != nil {
		return err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab, &sheets.ClearValuesRequest{}).Do(); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	vr := &sheets.ValueRange{Values: toInterfaces(rows)}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", tab), vr).
		ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("rewriting %s: %w", table, err)
	}
	return nil
}

// columnLetter converts a 1-based column index to its A1 letters.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

func toStrings(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

func toInterfaces(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}
