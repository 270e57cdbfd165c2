package process

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/sheetdb"
)

// Service implements the return-process lifecycle over the record
// store: registration, item batches, treatment updates, status moves,
// cascade deletion and the chat feed.
type Service struct {
	reader  sheetdb.Reader
	mutator *sheetdb.Mutator
	ids     *sheetdb.IDGenerator
	now     func() time.Time
}

// NewService creates the process service.
func NewService(reader sheetdb.Reader, mutator *sheetdb.Mutator, ids *sheetdb.IDGenerator) *Service {
	return &Service{reader: reader, mutator: mutator, ids: ids, now: time.Now}
}

// List returns every registered process.
func (s *Service) List() []models.Process {
	rows := s.reader.Load(sheetdb.TableProcesses)
	out := make([]models.Process, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ProcessFromRow(row))
	}
	return out
}

// Get returns one process by its business key.
func (s *Service) Get(id string) (models.Process, bool) {
	for _, row := range s.reader.Load(sheetdb.TableProcesses) {
		if row[models.ColProcessID] == id {
			return models.ProcessFromRow(row), true
		}
	}
	return models.Process{}, false
}

// FindByNF returns the process registered for an invoice number, if
// any. Invoice cells exported from the backend sometimes carry a
// numeric ".0" suffix; both sides are normalized before comparing.
func (s *Service) FindByNF(nf string) (models.Process, bool) {
	want := NormalizeNF(nf)
	if want == "" {
		return models.Process{}, false
	}
	for _, row := range s.reader.Load(sheetdb.TableProcesses) {
		if NormalizeNF(row[models.ColProcessNF]) == want {
			return models.ProcessFromRow(row), true
		}
	}
	return models.Process{}, false
}

// NormalizeNF trims an invoice number and strips the ".0" the CSV
// export appends to numeric cells.
func NormalizeNF(nf string) string {
	return strings.TrimSuffix(strings.TrimSpace(nf), ".0")
}

// Create registers a new process. The identifier and creation
// timestamp are assigned here and the status always starts ABERTO.
func (s *Service) Create(p models.Process) (string, error) {
	p.ID = s.ids.NextProcessID()
	p.CreatedAt = s.now().Format(models.DateTimeLayout)
	p.Status = models.StatusOpen

	if err := s.mutator.Append(sheetdb.TableProcesses, p.ToRow()); err != nil {
		return "", fmt.Errorf("saving process: %w", err)
	}
	return p.ID, nil
}

// AddItems appends a batch of line items to a process in one write.
// Item IDs and registration timestamps are assigned here; totals are
// recomputed inside ToRow.
func (s *Service) AddItems(processID string, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	registeredAt := s.now().Format(models.DateTimeLayout)
	recs := make([]sheetdb.Row, 0, len(items))
	for _, item := range items {
		item.ID = shortID()
		item.ProcessID = processID
		item.RegisteredAt = registeredAt
		recs = append(recs, item.ToRow())
	}

	if err := s.mutator.AppendBatch(sheetdb.TableItems, recs); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}
	return nil
}

// Items returns the line items of a process.
func (s *Service) Items(processID string) []models.Item {
	rows := s.reader.Load(sheetdb.TableItems)
	out := make([]models.Item, 0)
	for _, row := range rows {
		if strings.TrimSpace(row[models.ColItemProcessID]) == processID {
			out = append(out, models.ItemFromRow(row))
		}
	}
	return out
}

// TreatmentUpdate carries the full "tratativa" form. Empty attachment
// links are preserved rather than overwritten by the mutator.
type TreatmentUpdate struct {
	Status       string `json:"status"`
	FiscalStatus string `json:"fiscalStatus"`
	COBCode      string `json:"cobCode"`
	COBLink      string `json:"cobLink"`
	COBDate      string `json:"cobDate"`
	CTECode      string `json:"cteCode"`
	CTELink      string `json:"cteLink"`
	ReturnDate   string `json:"returnDate"`
	Vehicle      string `json:"vehicle"`
	Driver       string `json:"driver"`
	Location     string `json:"location"`
	Destination  string `json:"destination"`
	OC           string `json:"oc"`
	LoadOrder    string `json:"loadOrder"`
}

// UpdateTreatment writes the full treatment form onto the process row.
func (s *Service) UpdateTreatment(id string, upd TreatmentUpdate) error {
	fields := sheetdb.Row{
		models.ColProcessStatus: upd.Status,
		"STATUS_FISCAL":         upd.FiscalStatus,
		"COD_COB":               upd.COBCode,
		"COB_ANEXO":             upd.COBLink,
		"COB_DATA":              upd.COBDate,
		"COD_CTE":               upd.CTECode,
		"CTE_ANEXO":             upd.CTELink,
		"DATA_DEVOLUCAO_CTE":    upd.ReturnDate,
		"VEICULO":               upd.Vehicle,
		"MOTORISTA":             upd.Driver,
		"LOCAL_ATUAL":           upd.Location,
		"LOCAL_DESTINO":         upd.Destination,
		"OC":                    upd.OC,
		"ORDEM_DE_CARGA":        upd.LoadOrder,
	}
	if err := s.mutator.UpdateFields(sheetdb.TableProcesses, id, fields); err != nil {
		return fmt.Errorf("updating treatment of %s: %w", id, err)
	}
	return nil
}

// SetStatus moves a process to any status. Transitions are
// deliberately unconstrained; the board order is presentation only.
func (s *Service) SetStatus(id, status string) error {
	if err := s.mutator.SetStatus(sheetdb.TableProcesses, id, status); err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	return nil
}

// Delete removes a process and everything referencing it, one
// whole-table rewrite per tab. The three deletes are independent: a
// failure in one tab does not roll back the others, so a partial
// delete can leave orphaned rows behind.
func (s *Service) Delete(id string) error {
	match := func(row sheetdb.Row) bool {
		return row[models.ColProcessID] == id
	}

	var errs []error
	for _, table := range []string{sheetdb.TableProcesses, sheetdb.TableItems, sheetdb.TableMessages} {
		if err := s.mutator.DeleteWhere(table, match); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", table, err))
		}
	}
	return errors.Join(errs...)
}

// Messages returns the chat feed of a process, oldest first.
func (s *Service) Messages(processID string) []models.Message {
	rows := s.reader.Load(sheetdb.TableMessages)
	out := make([]models.Message, 0)
	for _, row := range rows {
		if row[models.ColMessageProcessID] == processID {
			out = append(out, models.MessageFromRow(row))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time())
	})
	return out
}

// AddMessage appends one chat entry to a process.
func (s *Service) AddMessage(processID, author, text, attachment string) (models.Message, error) {
	msg := models.Message{
		ID:         shortID(),
		ProcessID:  processID,
		Timestamp:  s.now().Format(models.MessageTimeLayout),
		Author:     author,
		Text:       text,
		Attachment: attachment,
	}

	if err := s.mutator.Append(sheetdb.TableMessages, msg.ToRow()); err != nil {
		return models.Message{}, fmt.Errorf("saving message: %w", err)
	}
	return msg, nil
}

// shortID returns the 8-char record identifier used for items and
// messages.
func shortID() string {
	return uuid.New().String()[:8]
}
