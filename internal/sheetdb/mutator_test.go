package sheetdb

import (
	"errors"
	"testing"
	"time"
)

func processHeader() []string {
	return []string{"ID_PROCESSO", "NF", "CTE", "DATA_CRIACAO", "STATUS", "COB_ANEXO", "CTE_ANEXO", "LOCAL_DESTINO"}
}

func newTestMutator() (*Mutator, *MemoryBackend, *SnapshotCache) {
	mem := NewMemoryBackend()
	mem.Seed(TableProcesses, processHeader(),
		[]string{"#DEV202501-001", "38435", "CTE-1", "01/01/2025 10:00:00", "ABERTO", "http://cob/1", "http://cte/1", "CD-SP"},
		[]string{"#DEV202501-002", "38436", "CTE-2", "02/01/2025 11:00:00", "EM ANÁLISE", "", "", "CD-RJ"},
	)
	cache := NewSnapshotCache(time.Minute)
	return NewMutator(mem, mem, cache), mem, cache
}

func TestAppendMapsFieldsOntoHeader(t *testing.T) {
	m, mem, cache := newTestMutator()
	cache.Put(TableProcesses, []Row{{"stale": "yes"}})

	err := m.Append(TableProcesses, Row{
		"ID_PROCESSO": "#DEV202501-003",
		"NF":          "38437",
		"STATUS":      "ABERTO",
		"UNKNOWN_COL": "dropped silently",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rows := mem.Rows(TableProcesses)
	last := rows[len(rows)-1]
	if last[0] != "#DEV202501-003" || last[1] != "38437" || last[4] != "ABERTO" {
		t.Errorf("Appended row mismatch: %v", last)
	}
	// Missing fields default to empty cells
	if last[2] != "" || last[3] != "" {
		t.Errorf("Missing fields should be empty, got %v", last)
	}
	if len(last) != len(processHeader()) {
		t.Errorf("Unknown fields must be dropped, row has %d cells", len(last))
	}

	if cache.Len() != 0 {
		t.Error("Successful append must invalidate the whole cache")
	}
}

func TestAppendBatchSingleCall(t *testing.T) {
	m, mem, _ := newTestMutator()
	mem.Seed(TableItems, []string{"ID_ITEM", "ID_PROCESSO", "QTD"})

	recs := []Row{
		{"ID_ITEM": "a1", "ID_PROCESSO": "#DEV202501-001", "QTD": "2"},
		{"ID_ITEM": "a2", "ID_PROCESSO": "#DEV202501-001", "QTD": "5"},
		{"ID_ITEM": "a3", "ID_PROCESSO": "#DEV202501-001", "QTD": "1"},
	}
	if err := m.AppendBatch(TableItems, recs); err != nil {
		t.Fatalf("AppendBatch failed: %v", err)
	}

	rows := mem.Rows(TableItems)
	if len(rows) != 4 { // header + 3
		t.Fatalf("Expected 4 raw rows, got %d", len(rows))
	}
	if rows[3][0] != "a3" || rows[3][2] != "1" {
		t.Errorf("Batch order mismatch: %v", rows[3])
	}
}

func TestFindRowFirstMatchWins(t *testing.T) {
	m, mem, _ := newTestMutator()
	// Duplicate business key: the first in table order must win
	mem.AppendRows(TableProcesses, [][]string{
		{"#DEV202501-001", "99999", "", "", "CANCELADO", "", "", ""},
	})

	row, err := m.FindRow(TableProcesses, "#DEV202501-001")
	if err != nil {
		t.Fatalf("FindRow failed: %v", err)
	}
	if row != 2 {
		t.Errorf("Expected first match at row 2, got %d", row)
	}

	if _, err := m.FindRow(TableProcesses, "#DEV999999-001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateFieldsPreservesAttachmentsOnEmpty(t *testing.T) {
	m, mem, _ := newTestMutator()

	err := m.UpdateFields(TableProcesses, "#DEV202501-001", Row{
		"STATUS":        "EM TRÂNSITO",
		"COB_ANEXO":     "",
		"CTE_ANEXO":     "",
		"LOCAL_DESTINO": "",
	})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}

	row := mem.Rows(TableProcesses)[1]
	if row[4] != "EM TRÂNSITO" {
		t.Errorf("Status not written: %q", row[4])
	}
	// Attachment links survive an empty update
	if row[5] != "http://cob/1" || row[6] != "http://cte/1" {
		t.Errorf("Attachment links must be preserved on empty write: %v", row)
	}
	// Every other field is overwritten, empty included
	if row[7] != "" {
		t.Errorf("Non-attachment field should be overwritten with empty, got %q", row[7])
	}
}

func TestUpdateFieldsReplacesAttachmentWhenProvided(t *testing.T) {
	m, mem, _ := newTestMutator()

	err := m.UpdateFields(TableProcesses, "#DEV202501-001", Row{
		"COB_ANEXO": "http://cob/new",
	})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}

	if got := mem.Rows(TableProcesses)[1][5]; got != "http://cob/new" {
		t.Errorf("Non-empty attachment must replace, got %q", got)
	}
}

func TestUpdateFieldsSkipsAbsentColumns(t *testing.T) {
	m, mem, _ := newTestMutator()

	err := m.UpdateFields(TableProcesses, "#DEV202501-002", Row{
		"NO_SUCH_COLUMN": "value",
		"NF":             "40000",
	})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}
	if got := mem.Rows(TableProcesses)[2][1]; got != "40000" {
		t.Errorf("Known column not written: %q", got)
	}
}

func TestSetStatusUsesHeaderColumn(t *testing.T) {
	m, mem, _ := newTestMutator()

	if err := m.SetStatus(TableProcesses, "#DEV202501-002", "CONCLUÍDO"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := mem.Rows(TableProcesses)[2][4]; got != "CONCLUÍDO" {
		t.Errorf("Status not written to STATUS column: %q", got)
	}
}

func TestSetStatusFallsBackToLegacyColumn(t *testing.T) {
	mem := NewMemoryBackend()
	// Header without a STATUS column: the legacy fixed position is used
	mem.Seed(TableProcesses,
		[]string{"ID_PROCESSO", "NF", "C3", "C4", "C5", "C6", "C7", "SITUACAO"},
		[]string{"#DEV202501-001", "38435", "", "", "", "", "", "ABERTO"},
	)
	cache := NewSnapshotCache(time.Minute)
	m := NewMutator(mem, mem, cache)

	if err := m.SetStatus(TableProcesses, "#DEV202501-001", "CONCLUÍDO"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := mem.Rows(TableProcesses)[1][legacyStatusColumn-1]; got != "CONCLUÍDO" {
		t.Errorf("Fallback column not written: %q", got)
	}
}

func TestDeleteWhereRewritesWholeTable(t *testing.T) {
	m, mem, cache := newTestMutator()
	cache.Put(TableProcesses, []Row{{"stale": "yes"}})

	err := m.DeleteWhere(TableProcesses, func(row Row) bool {
		return row["ID_PROCESSO"] == "#DEV202501-001"
	})
	if err != nil {
		t.Fatalf("DeleteWhere failed: %v", err)
	}

	rows := mem.Rows(TableProcesses)
	if len(rows) != 2 { // header + the surviving row
		t.Fatalf("Expected header plus 1 row, got %d", len(rows))
	}
	if rows[1][0] != "#DEV202501-002" {
		t.Errorf("Wrong survivor: %v", rows[1])
	}
	if cache.Len() != 0 {
		t.Error("Delete must invalidate the cache")
	}
}

func TestDeleteWhereNoMatchLeavesTableUntouched(t *testing.T) {
	m, mem, cache := newTestMutator()
	cache.Put(TableProcesses, []Row{{"still": "here"}})
	before := len(mem.Rows(TableProcesses))

	err := m.DeleteWhere(TableProcesses, func(row Row) bool { return false })
	if err != nil {
		t.Fatalf("DeleteWhere failed: %v", err)
	}
	if got := len(mem.Rows(TableProcesses)); got != before {
		t.Errorf("Table should be untouched, had %d rows now %d", before, got)
	}
	if cache.Len() != 1 {
		t.Error("No-op delete must not invalidate the cache")
	}
}

func TestMutationsFailClosedWithoutCredential(t *testing.T) {
	mem := NewMemoryBackend()
	mem.Seed(TableProcesses, processHeader())
	m := NewMutator(nil, mem, NewSnapshotCache(time.Minute))

	if m.Writable() {
		t.Error("Mutator without credential must not report writable")
	}
	if err := m.Append(TableProcesses, Row{"ID_PROCESSO": "x"}); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Append should fail closed, got %v", err)
	}
	if err := m.SetStatus(TableProcesses, "x", "ABERTO"); !errors.Is(err, ErrNoCredential) {
		t.Errorf("SetStatus should fail closed, got %v", err)
	}
	if err := m.DeleteWhere(TableProcesses, func(Row) bool { return true }); !errors.Is(err, ErrNoCredential) {
		t.Errorf("DeleteWhere should fail closed, got %v", err)
	}
}
