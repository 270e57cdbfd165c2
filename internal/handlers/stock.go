package handlers

import (
	"net/http"
	"strconv"

	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/services/stock"
)

// stockView returns the consolidated item/process join
func (r *Router) stockView(w http.ResponseWriter, req *http.Request) {
	rows := r.stock.Consolidate()

	if destination := req.URL.Query().Get("destination"); destination != "" {
		filtered := make([]stock.EnrichedItem, 0, len(rows))
		for _, row := range rows {
			if row.Destination == destination {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":   rows,
		"totals": stock.Summarize(rows),
	})
}

// stockByDestination returns per-destination aggregates
func (r *Router) stockByDestination(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, stock.ByDestination(r.stock.Consolidate()))
}

// stockTop returns the highest-value (description, destination) groups
func (r *Router) stockTop(w http.ResponseWriter, req *http.Request) {
	n := 10
	if v := req.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}
	respondJSON(w, http.StatusOK, stock.TopByValue(r.stock.Consolidate(), n))
}

// dashboard returns the board counters and headline totals
func (r *Router) dashboard(w http.ResponseWriter, req *http.Request) {
	byStatus := map[string]int{}
	byFiscal := map[string]int{}
	processes := r.processes.List()
	for _, p := range processes {
		status := p.Status
		if status == "" {
			status = models.StatusOpen
		}
		byStatus[status]++
		if p.FiscalStatus != "" {
			byFiscal[p.FiscalStatus]++
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"processes": len(processes),
		"byStatus":  byStatus,
		"byFiscal":  byFiscal,
		"totals":    stock.Summarize(r.stock.Consolidate()),
	})
}
