package sheetdb

import (
	"fmt"
	"sync"
)

// MemoryBackend is an in-memory table set implementing both RowAPI and
// Reader. It backs the test suite and local development without a
// spreadsheet; it deliberately mirrors the backend's shape (header row
// plus positional cells) rather than storing typed records.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string][][]string
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string][][]string)}
}

// Seed installs a table with a header and initial rows.
func (m *MemoryBackend) Seed(table string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := [][]string{header}
	data = append(data, rows...)
	m.tables[table] = data
}

// Header returns the first row of the table.
func (m *MemoryBackend) Header(table string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("table %s has no header row", table)
	}
	return append([]string(nil), data[0]...), nil
}

// ColumnValues returns one column top to bottom, header included.
func (m *MemoryBackend) ColumnValues(table string, col int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	out := make([]string, 0, len(data))
	for _, row := range data {
		if col-1 < len(row) {
			out = append(out, row[col-1])
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

// AppendRows adds rows at the end of the table.
func (m *MemoryBackend) AppendRows(table string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	m.tables[table] = append(data, rows...)
	return nil
}

// UpdateCell writes a single cell (1-based row and column).
func (m *MemoryBackend) UpdateCell(table string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	if row-1 >= len(data) {
		return fmt.Errorf("row %d out of range in %s", row, table)
	}
	for col-1 >= len(data[row-1]) {
		data[row-1] = append(data[row-1], "")
	}
	data[row-1][col-1] = value
	return nil
}

// Replace clears the table and writes all rows back.
func (m *MemoryBackend) Replace(table string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	m.tables[table] = rows
	return nil
}

// Load implements Reader over the in-memory tables.
func (m *MemoryBackend) Load(table string) []Row {
	rows, err := m.LoadFresh(table)
	if err != nil {
		return []Row{}
	}
	return rows
}

// LoadFresh implements Reader over the in-memory tables.
func (m *MemoryBackend) LoadFresh(table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if len(data) == 0 {
		return []Row{}, nil
	}
	header := data[0]
	rows := make([]Row, 0, len(data)-1)
	for _, record := range data[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rows returns a copy of the raw table contents, for assertions.
func (m *MemoryBackend) Rows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := m.tables[table]
	out := make([][]string, len(data))
	for i, row := range data {
		out[i] = append([]string(nil), row...)
	}
	return out
}
