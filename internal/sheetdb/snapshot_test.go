package sheetdb

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLoader(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*SnapshotLoader, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache := NewSnapshotCache(ttl)
	loader := NewSnapshotLoader("sheet-test", NewRegistry(), cache)
	loader.SetExportURL(server.URL + "/%s/%s")
	return loader, server
}

func TestLoadParsesCSV(t *testing.T) {
	var sawUA atomic.Value
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		sawUA.Store(r.Header.Get("User-Agent"))
		fmt.Fprint(w, "ID_PROCESSO,NF,STATUS\n#DEV202501-001,38435,ABERTO\n#DEV202501-002,38436,CONCLUÍDO\n")
	}, time.Minute)

	rows := loader.Load(TableProcesses)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["ID_PROCESSO"] != "#DEV202501-001" || rows[0]["STATUS"] != "ABERTO" {
		t.Errorf("First row mismatch: %v", rows[0])
	}
	if rows[1]["STATUS"] != "CONCLUÍDO" {
		t.Errorf("UTF-8 cell mangled: %q", rows[1]["STATUS"])
	}

	ua, _ := sawUA.Load().(string)
	if ua == "" || ua == "Go-http-client/1.1" {
		t.Errorf("Export request must carry a browser-like User-Agent, got %q", ua)
	}
}

func TestLoadReturnsEmptyOnHTMLInterstitial(t *testing.T) {
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!DOCTYPE html><html><body>Sign in</body></html>")
	}, time.Minute)

	rows := loader.Load(TableProcesses)
	if len(rows) != 0 {
		t.Errorf("HTML interstitial must read as empty, got %d rows", len(rows))
	}
}

func TestLoadReturnsEmptyOnServerError(t *testing.T) {
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, time.Minute)

	if rows := loader.Load(TableProcesses); len(rows) != 0 {
		t.Errorf("Backend error must read as empty, got %d rows", len(rows))
	}
}

func TestLoadReturnsEmptyForUnknownTable(t *testing.T) {
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "A\n1\n")
	}, time.Minute)

	if rows := loader.Load("NO_SUCH_TABLE"); len(rows) != 0 {
		t.Errorf("Unknown table must read as empty, got %d rows", len(rows))
	}
}

func TestLoadServesFromCacheWithinTTL(t *testing.T) {
	var hits atomic.Int32
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "ID_PROCESSO\n#DEV202501-001\n")
	}, time.Minute)

	first := loader.Load(TableProcesses)
	second := loader.Load(TableProcesses)

	if hits.Load() != 1 {
		t.Errorf("Expected a single backend fetch, got %d", hits.Load())
	}
	if len(first) != 1 || len(second) != 1 || first[0]["ID_PROCESSO"] != second[0]["ID_PROCESSO"] {
		t.Error("Cached reload should return identical results")
	}
}

func TestLoadRefetchesAfterInvalidation(t *testing.T) {
	var hits atomic.Int32
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintf(w, "ID_PROCESSO,STATUS\n#DEV202501-001,v%d\n", hits.Load())
	}, time.Minute)

	before := loader.Load(TableProcesses)
	loader.cache.Invalidate()
	after := loader.Load(TableProcesses)

	if hits.Load() != 2 {
		t.Fatalf("Expected refetch after invalidation, got %d fetches", hits.Load())
	}
	if before[0]["STATUS"] == after[0]["STATUS"] {
		t.Error("Post-invalidation read should observe fresh data")
	}
}

func TestLoadFreshBypassesCache(t *testing.T) {
	var hits atomic.Int32
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "ID_PROCESSO\n#DEV202501-001\n")
	}, time.Minute)

	loader.Load(TableProcesses)
	if _, err := loader.LoadFresh(TableProcesses); err != nil {
		t.Fatalf("LoadFresh failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("LoadFresh must hit the backend, got %d fetches", hits.Load())
	}
}

func TestLoadPadsShortRows(t *testing.T) {
	loader, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "A,B,C\n1,2\n")
	}, time.Minute)

	rows := loader.Load(TableProcesses)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0]["C"] != "" {
		t.Errorf("Short row should pad missing cells, got %q", rows[0]["C"])
	}
}
