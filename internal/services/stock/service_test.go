package stock

import (
	"testing"

	"github.com/maroso-log/devtrack/internal/sheetdb"
)

func seedStock() *sheetdb.MemoryBackend {
	mem := sheetdb.NewMemoryBackend()
	mem.Seed(sheetdb.TableProcesses,
		[]string{"ID_PROCESSO", "NF", "STATUS", "STATUS_FISCAL", "LOCAL_DESTINO", "VEICULO", "MOTORISTA", "OC", "DATA_EMISSAO"},
		[]string{"#DEV202503-001", "38435", "ABERTO", "PENDENTE", "CD-SP", "ABC-1234", "João", "OC-501", "01/03/2025"},
		[]string{"#DEV202503-002", "38436", "EM TRÂNSITO", "APROVADO", "", "XYZ-9999", "Pedro", "", "02/03/2025"},
	)
	mem.Seed(sheetdb.TableItems,
		[]string{"ID_ITEM", "ID_PROCESSO", "COD_ITEM", "DESCRICAO", "QTD", "VALOR_TOTAL"},
		[]string{"i1", "#DEV202503-001", "SKU-1", "Peça A", "2", "100,00"},
		[]string{"i2", " #DEV202503-001 ", "SKU-2", "Peça B", "1", "R$ 50,00"},
		[]string{"i3", "#DEV202503-002", "SKU-1", "Peça A", "3", "30,00"},
		[]string{"i4", "#DEV999999-999", "SKU-9", "Órfão", "1", "999,00"},
	)
	return mem
}

func TestConsolidateJoinsItemsWithProcesses(t *testing.T) {
	svc := NewService(seedStock())

	rows := svc.Consolidate()
	if len(rows) != 3 {
		t.Fatalf("Expected 3 joined rows, got %d", len(rows))
	}

	for _, row := range rows {
		if row.ProcessID == "#DEV999999-999" {
			t.Error("Dangling item must be dropped from the join")
		}
	}

	first := rows[0]
	if first.NF != "38435" || first.Destination != "CD-SP" || first.Driver != "João" {
		t.Errorf("Parent fields not joined: %+v", first)
	}
	if first.TotalValue != 100 {
		t.Errorf("Locale value not parsed: %v", first.TotalValue)
	}

	// Whitespace around the key still joins
	if rows[1].ProcessID != "#DEV202503-001" {
		t.Errorf("Trimmed key should join, got %q", rows[1].ProcessID)
	}
}

func TestConsolidateSentinelForMissingDestination(t *testing.T) {
	svc := NewService(seedStock())

	for _, row := range svc.Consolidate() {
		if row.ProcessID == "#DEV202503-002" && row.Destination != NoDestination {
			t.Errorf("Missing destination should read %q, got %q", NoDestination, row.Destination)
		}
	}
}

func TestConsolidateEmptyTables(t *testing.T) {
	mem := sheetdb.NewMemoryBackend()
	mem.Seed(sheetdb.TableProcesses, []string{"ID_PROCESSO"})
	mem.Seed(sheetdb.TableItems, []string{"ID_ITEM", "ID_PROCESSO"})

	if rows := NewService(mem).Consolidate(); len(rows) != 0 {
		t.Errorf("Empty tables should consolidate to nothing, got %d", len(rows))
	}
}

func TestConsolidateLegacyValueColumn(t *testing.T) {
	mem := sheetdb.NewMemoryBackend()
	mem.Seed(sheetdb.TableProcesses,
		[]string{"ID_PROCESSO", "NF", "LOCAL_DESTINO"},
		[]string{"#DEV202503-001", "38435", "CD-SP"},
	)
	// Older sheets carry the total under VALOR
	mem.Seed(sheetdb.TableItems,
		[]string{"ID_ITEM", "ID_PROCESSO", "QTD", "VALOR"},
		[]string{"i1", "#DEV202503-001", "2", "75,50"},
	)

	rows := NewService(mem).Consolidate()
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].TotalValue != 75.5 {
		t.Errorf("VALOR fallback not read: %v", rows[0].TotalValue)
	}
}

func TestTopByValueRanksBuckets(t *testing.T) {
	rows := []EnrichedItem{
		{Description: "Peça A", Destination: "CD-SP", Quantity: 2, TotalValue: 100},
		{Description: "Peça A", Destination: "CD-SP", Quantity: 1, TotalValue: 40},
		{Description: "Peça A", Destination: "CD-RJ", Quantity: 3, TotalValue: 30},
		{Description: "Peça B", Destination: "CD-SP", Quantity: 1, TotalValue: 50},
	}

	top := TopByValue(rows, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(top))
	}
	if top[0].Description != "Peça A" || top[0].Destination != "CD-SP" {
		t.Errorf("Top bucket mismatch: %+v", top[0])
	}
	if top[0].TotalValue != 140 || top[0].Quantity != 3 || top[0].Items != 2 {
		t.Errorf("Bucket sums wrong: %+v", top[0])
	}
	if top[1].Description != "Peça B" {
		t.Errorf("Second bucket mismatch: %+v", top[1])
	}

	// Zero limit returns everything
	if all := TopByValue(rows, 0); len(all) != 3 {
		t.Errorf("Unlimited should return 3 buckets, got %d", len(all))
	}
}

func TestByDestination(t *testing.T) {
	rows := []EnrichedItem{
		{Destination: "CD-SP", Quantity: 2, TotalValue: 100},
		{Destination: "CD-RJ", Quantity: 1, TotalValue: 40},
		{Destination: "CD-SP", Quantity: 3, TotalValue: 10},
	}

	groups := ByDestination(rows)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 destinations, got %d", len(groups))
	}
	// Sorted by destination name
	if groups[0].Destination != "CD-RJ" || groups[1].Destination != "CD-SP" {
		t.Errorf("Wrong order: %v %v", groups[0].Destination, groups[1].Destination)
	}
	if groups[1].Quantity != 5 || groups[1].TotalValue != 110 || groups[1].Items != 2 {
		t.Errorf("CD-SP sums wrong: %+v", groups[1])
	}
}

func TestSummarizeCountsDistinctProcesses(t *testing.T) {
	rows := []EnrichedItem{
		{ProcessID: "#DEV202503-001", Quantity: 2, TotalValue: 100},
		{ProcessID: "#DEV202503-001", Quantity: 1, TotalValue: 50},
		{ProcessID: "#DEV202503-002", Quantity: 3, TotalValue: 30},
	}

	totals := Summarize(rows)
	if totals.Items != 3 || totals.Processes != 2 {
		t.Errorf("Counts wrong: %+v", totals)
	}
	if totals.Quantity != 6 || totals.TotalValue != 180 {
		t.Errorf("Sums wrong: %+v", totals)
	}
}
