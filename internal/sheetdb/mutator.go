package sheetdb

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when no row carries the requested key.
var ErrNotFound = errors.New("row not found")

// Attachment link columns keep their stored value when an update
// supplies an empty string, so a form submitted without a replacement
// file cannot erase a previously uploaded document reference. Every
// other column is overwritten unconditionally.
var preserveWhenEmpty = map[string]bool{
	"COB_ANEXO": true,
	"CTE_ANEXO": true,
}

// Fallback position of the STATUS column when the header has been
// renamed. Compatibility shim for old copies of the spreadsheet; do
// not extend it to other columns.
const legacyStatusColumn = 8

// Mutator is the row-level write path. Rows are addressed by business
// key (first column), located by linear scan. Every successful
// mutation clears the snapshot cache so the next read observes it.
//
// There is no cross-instance coordination: concurrent writers can
// interleave between FindRow and the cell writes, or between the
// snapshot and the rewrite inside DeleteWhere, and the later writer
// wins. Single-writer operation is assumed.
type Mutator struct {
	api    RowAPI
	reader Reader
	cache  *SnapshotCache
}

// NewMutator creates the write path. api may be nil when no credential
// is configured; every operation then fails with ErrNoCredential.
func NewMutator(api RowAPI, reader Reader, cache *SnapshotCache) *Mutator {
	return &Mutator{api: api, reader: reader, cache: cache}
}

// Writable reports whether the write path has a credential.
func (m *Mutator) Writable() bool {
	return m.api != nil
}

// Append adds one record at the end of the table. Fields are mapped
// onto the table's header order; fields absent from the header are
// dropped, header columns absent from the record become empty cells.
func (m *Mutator) Append(table string, rec Row) error {
	return m.AppendBatch(table, []Row{rec})
}

// AppendBatch appends all records in one network round-trip. Row-by-row
// appends are too slow for bulk item inserts.
func (m *Mutator) AppendBatch(table string, recs []Row) error {
	if m.api == nil {
		return ErrNoCredential
	}
	if len(recs) == 0 {
		return nil
	}

	header, err := m.api.Header(table)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, mapToHeader(header, rec))
	}

	if err := m.api.AppendRows(table, rows); err != nil {
		return err
	}
	m.cache.Invalidate()
	return nil
}

// FindRow locates the first row whose first column equals key and
// returns its 1-based row number. Duplicate keys resolve to the first
// match in table order.
func (m *Mutator) FindRow(table, key string) (int, error) {
	if m.api == nil {
		return 0, ErrNoCredential
	}

	column, err := m.api.ColumnValues(table, 1)
	if err != nil {
		return 0, err
	}

	// Row 1 is the header.
	for i := 1; i < len(column); i++ {
		if column[i] == key {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %s", ErrNotFound, key, table)
}

// UpdateFields sets the named fields on the row addressed by key.
// Fields missing from the header are skipped. Empty values are skipped
// for the attachment link columns (see preserveWhenEmpty) and written
// through everywhere else.
func (m *Mutator) UpdateFields(table, key string, fields Row) error {
	if m.api == nil {
		return ErrNoCredential
	}

	rowNum, err := m.FindRow(table, key)
	if err != nil {
		return err
	}

	header, err := m.api.Header(table)
	if err != nil {
		return err
	}

	// Deterministic write order regardless of map iteration.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := fields[name]
		col := indexOf(header, name)
		if col < 0 {
			continue
		}
		if value == "" && preserveWhenEmpty[name] {
			continue
		}
		if err := m.api.UpdateCell(table, rowNum, col+1, value); err != nil {
			return err
		}
	}

	m.cache.Invalidate()
	return nil
}

// SetStatus writes the STATUS column of the row addressed by key,
// falling back to the legacy fixed column position when the header
// does not carry a STATUS column.
func (m *Mutator) SetStatus(table, key, status string) error {
	if m.api == nil {
		return ErrNoCredential
	}

	rowNum, err := m.FindRow(table, key)
	if err != nil {
		return err
	}

	header, err := m.api.Header(table)
	if err != nil {
		return err
	}

	col := legacyStatusColumn
	if idx := indexOf(header, "STATUS"); idx >= 0 {
		col = idx + 1
	}

	if err := m.api.UpdateCell(table, rowNum, col, status); err != nil {
		return err
	}
	m.cache.Invalidate()
	return nil
}

// DeleteWhere removes every row matching the predicate by snapshotting
// the table, filtering, and rewriting it whole (clear + bulk write).
// The backend offers no row deletion keyed by value, so the rewrite is
// the only mechanism. A concurrent append landing between the snapshot
// and the rewrite is lost.
//
// When the fresh load fails or nothing matches, the table is left
// untouched; a failed read must never be rewritten as an empty table.
func (m *Mutator) DeleteWhere(table string, match func(Row) bool) error {
	if m.api == nil {
		return ErrNoCredential
	}

	rows, err := m.reader.LoadFresh(table)
	if err != nil {
		return fmt.Errorf("snapshot before delete from %s: %w", table, err)
	}

	kept := make([]Row, 0, len(rows))
	removed := 0
	for _, row := range rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return nil
	}

	header, err := m.api.Header(table)
	if err != nil {
		return err
	}

	out := make([][]string, 0, len(kept)+1)
	out = append(out, header)
	for _, row := range kept {
		out = append(out, mapToHeader(header, row))
	}

	if err := m.api.Replace(table, out); err != nil {
		return err
	}
	m.cache.Invalidate()
	return nil
}

// mapToHeader projects a record onto the header's column order.
func mapToHeader(header []string, rec Row) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = rec[col]
	}
	return row
}

func indexOf(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
