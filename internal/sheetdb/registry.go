package sheetdb

// Row is one spreadsheet record, keyed by header column name.
// Every value is a string; the backend has no cell types worth trusting.
type Row map[string]string

// Logical table names. Each one is a worksheet tab in the backing
// spreadsheet; the first three form the return-process data model,
// USUARIOS drives login and the DATABASE_* tabs are read-only
// reference imports from external systems.
const (
	TableProcesses = "REGISTRO_DEVOLUCOES"
	TableItems     = "REGISTRO_ITENS"
	TableMessages  = "REGISTRO_MENSAGENS"
	TableUsers     = "USUARIOS"
	TableRefX3     = "DATABASE_X3"
	TableRefOC     = "DATABASE_OC"
)

// TableInfo maps a logical table to its backend location: the worksheet
// tab name used by the write API and the export gid used by the CSV
// read path.
type TableInfo struct {
	Tab string
	GID string
}

// Registry is the fixed set of known tables. Asking the read path for a
// table outside the registry yields an empty snapshot, not an error.
type Registry struct {
	tables map[string]TableInfo
}

// NewRegistry returns the registry with the default gid layout.
// Per-deployment gids can be overridden before the store is opened.
func NewRegistry() *Registry {
	return &Registry{
		tables: map[string]TableInfo{
			TableProcesses: {Tab: TableProcesses, GID: "0"},
			TableItems:     {Tab: TableItems, GID: "1"},
			TableMessages:  {Tab: TableMessages, GID: "2"},
			TableUsers:     {Tab: TableUsers, GID: "3"},
			TableRefX3:     {Tab: TableRefX3, GID: "4"},
			TableRefOC:     {Tab: TableRefOC, GID: "5"},
		},
	}
}

// Lookup resolves a logical table name.
func (r *Registry) Lookup(name string) (TableInfo, bool) {
	info, ok := r.tables[name]
	return info, ok
}

// SetGID overrides the export gid for one table.
func (r *Registry) SetGID(name, gid string) {
	if info, ok := r.tables[name]; ok {
		info.GID = gid
		r.tables[name] = info
	}
}

// Names returns the registered table names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	return names
}
