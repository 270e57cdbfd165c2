package sheetdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const defaultExportURL = "https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s"

// Google serves an HTML interstitial instead of CSV when it decides the
// request looks like a bot or needs a login redirect. A plain
// browser-like User-Agent avoids most of it.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Reader is the read path seen by the service layer.
type Reader interface {
	// Load returns the full table snapshot, possibly cached.
	// It never fails: backend errors degrade to an empty snapshot.
	Load(table string) []Row

	// LoadFresh bypasses the cache and reports errors, for callers
	// that must not act on stale or ambiguous data (table rewrite,
	// ID generation).
	LoadFresh(table string) ([]Row, error)
}

// SnapshotLoader fetches entire tables through the spreadsheet's CSV
// export endpoint and keeps them in a short-lived TTL cache. A circuit
// breaker fails fast when the backend has been rejecting requests.
type SnapshotLoader struct {
	spreadsheetID string
	registry      *Registry
	cache         *SnapshotCache
	client        *http.Client
	breaker       *gobreaker.CircuitBreaker
	exportURL     string
}

// NewSnapshotLoader creates the bulk read path.
func NewSnapshotLoader(spreadsheetID string, registry *Registry, cache *SnapshotCache) *SnapshotLoader {
	return &SnapshotLoader{
		spreadsheetID: spreadsheetID,
		registry:      registry,
		cache:         cache,
		client:        &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "sheet-export",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
		exportURL: defaultExportURL,
	}
}

// SetExportURL overrides the export URL template (tests point it at a
// local server).
func (l *SnapshotLoader) SetExportURL(tmpl string) {
	l.exportURL = tmpl
}

// Load returns the current contents of a table. Failures of any kind
// (unknown table, network error, blocked response, bad CSV) come back
// as an empty snapshot with a diagnostic in the log, so callers cannot
// distinguish "no data" from "load failed". That ambiguity is a known
// property of this store, not an accident.
func (l *SnapshotLoader) Load(table string) []Row {
	if rows, ok := l.cache.Get(table); ok {
		return rows
	}

	rows, err := l.LoadFresh(table)
	if err != nil {
		log.Printf("⚠️ Snapshot: load %s failed: %v", table, err)
		return []Row{}
	}

	l.cache.Put(table, rows)
	return rows
}

// LoadFresh fetches the table directly from the backend.
func (l *SnapshotLoader) LoadFresh(table string) ([]Row, error) {
	info, ok := l.registry.Lookup(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	result, err := l.breaker.Execute(func() (interface{}, error) {
		return l.fetch(info)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

func (l *SnapshotLoader) fetch(info TableInfo) ([]Row, error) {
	url := fmt.Sprintf(l.exportURL, l.spreadsheetID, info.GID)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/csv,text/plain,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt-BR;q=0.8,pt;q=0.7")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading export body: %w", err)
	}

	// The export must always be checked for markup: a login page or a
	// bot interstitial arrives with status 200 and must never be
	// parsed as data.
	if looksLikeHTML(body) {
		return nil, fmt.Errorf("export blocked: received HTML instead of CSV")
	}

	return parseCSV(body)
}

// looksLikeHTML reports whether the body starts with markup.
func looksLikeHTML(body []byte) bool {
	head := strings.TrimSpace(string(body[:min(len(body), 512)]))
	lower := strings.ToLower(head)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}

// parseCSV decodes the export into rows keyed by the header line.
// Values are forced through as UTF-8 text; short rows pad with empty
// strings and surplus cells beyond the header are dropped.
func parseCSV(body []byte) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(records) == 0 {
		return []Row{}, nil
	}

	header := records[0]
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
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
