package stock

import (
	"sort"
	"strings"

	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	"github.com/maroso-log/devtrack/internal/utils"
)

// NoDestination is the sentinel for items whose parent process has no
// destination assigned, so they stay visible and filterable in
// aggregates instead of vanishing.
const NoDestination = "Sem Destino"

// EnrichedItem is one line item joined with its parent process.
type EnrichedItem struct {
	ProcessID    string  `json:"processId"`
	NF           string  `json:"nf"`
	OC           string  `json:"oc"`
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	TotalValue   float64 `json:"totalValue"`
	Destination  string  `json:"destination"`
	Vehicle      string  `json:"vehicle"`
	Driver       string  `json:"driver"`
	Status       string  `json:"status"`
	FiscalStatus string  `json:"fiscalStatus"`
	IssueDate    string  `json:"issueDate"`
}

// Service produces the stock-by-destination view: items joined to
// their processes, values normalized, grouped and ranked.
type Service struct {
	reader sheetdb.Reader
}

// NewService creates the stock service.
func NewService(reader sheetdb.Reader) *Service {
	return &Service{reader: reader}
}

// Consolidate inner-joins the item table with the process table on the
// trimmed process key. Items whose parent process is missing are
// dropped from the result — the store does not enforce the reference,
// so a dangling item silently disappears from every aggregate here.
func (s *Service) Consolidate() []EnrichedItem {
	processRows := s.reader.Load(sheetdb.TableProcesses)
	itemRows := s.reader.Load(sheetdb.TableItems)
	if len(processRows) == 0 || len(itemRows) == 0 {
		return []EnrichedItem{}
	}

	// The backend returns keys as numbers or strings depending on the
	// cell; trim both sides before joining.
	processes := make(map[string]models.Process, len(processRows))
	for _, row := range processRows {
		p := models.ProcessFromRow(row)
		key := strings.TrimSpace(p.ID)
		if key == "" {
			continue
		}
		if _, dup := processes[key]; !dup {
			processes[key] = p
		}
	}

	out := make([]EnrichedItem, 0, len(itemRows))
	for _, row := range itemRows {
		key := strings.TrimSpace(row[models.ColItemProcessID])
		parent, ok := processes[key]
		if !ok {
			continue
		}

		destination := strings.TrimSpace(parent.Destination)
		if destination == "" {
			destination = NoDestination
		}

		// Some older sheets carry the total under VALOR.
		totalCell := row["VALOR_TOTAL"]
		if _, has := row["VALOR_TOTAL"]; !has {
			totalCell = row["VALOR"]
		}

		out = append(out, EnrichedItem{
			ProcessID:    key,
			NF:           parent.NF,
			OC:           parent.OC,
			Code:         row["COD_ITEM"],
			Description:  row["DESCRICAO"],
			Quantity:     utils.ParseDecimal(row["QTD"]),
			TotalValue:   utils.ParseDecimal(totalCell),
			Destination:  destination,
			Vehicle:      parent.Vehicle,
			Driver:       parent.Driver,
			Status:       parent.Status,
			FiscalStatus: parent.FiscalStatus,
			IssueDate:    parent.IssueDate,
		})
	}
	return out
}

// Group is one aggregation bucket.
type Group struct {
	Description string  `json:"description"`
	Destination string  `json:"destination"`
	Quantity    float64 `json:"quantity"`
	TotalValue  float64 `json:"totalValue"`
	Items       int     `json:"items"`
}

// TopByValue groups the enriched rows by (description, destination)
// and returns the n highest-value buckets.
func TopByValue(rows []EnrichedItem, n int) []Group {
	type key struct{ desc, dest string }
	buckets := make(map[key]*Group)
	for _, row := range rows {
		k := key{row.Description, row.Destination}
		g, ok := buckets[k]
		if !ok {
			g = &Group{Description: row.Description, Destination: row.Destination}
			buckets[k] = g
		}
		g.Quantity += row.Quantity
		g.TotalValue += row.TotalValue
		g.Items++
	}

	out := make([]Group, 0, len(buckets))
	for _, g := range buckets {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalValue != out[j].TotalValue {
			return out[i].TotalValue > out[j].TotalValue
		}
		// Stable display order for equal values.
		if out[i].Description != out[j].Description {
			return out[i].Description < out[j].Description
		}
		return out[i].Destination < out[j].Destination
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ByDestination sums quantity and value per destination.
func ByDestination(rows []EnrichedItem) []Group {
	buckets := make(map[string]*Group)
	for _, row := range rows {
		g, ok := buckets[row.Destination]
		if !ok {
			g = &Group{Destination: row.Destination}
			buckets[row.Destination] = g
		}
		g.Quantity += row.Quantity
		g.TotalValue += row.TotalValue
		g.Items++
	}

	out := make([]Group, 0, len(buckets))
	for _, g := range buckets {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Destination < out[j].Destination })
	return out
}

// Totals are the headline numbers over an enriched view.
type Totals struct {
	Quantity   float64 `json:"quantity"`
	TotalValue float64 `json:"totalValue"`
	Items      int     `json:"items"`
	Processes  int     `json:"processes"`
}

// Summarize computes the headline totals.
func Summarize(rows []EnrichedItem) Totals {
	t := Totals{Items: len(rows)}
	seen := make(map[string]bool)
	for _, row := range rows {
		t.Quantity += row.Quantity
		t.TotalValue += row.TotalValue
		seen[row.ProcessID] = true
	}
	t.Processes = len(seen)
	return t
}
