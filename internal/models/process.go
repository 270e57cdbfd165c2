package models

import (
	"time"

	"github.com/maroso-log/devtrack/internal/sheetdb"
)

// Logistics status values. The kanban board displays them in this
// order, but the store accepts any value at any time: the flow is a
// label, not a state machine.
const (
	StatusOpen      = "ABERTO"
	StatusInReview  = "EM ANÁLISE"
	StatusInTransit = "EM TRÂNSITO"
	StatusDone      = "CONCLUÍDO"
	StatusCancelled = "CANCELADO"
)

// Fiscal status values.
const (
	FiscalPending  = "PENDENTE"
	FiscalApproved = "APROVADO"
	FiscalRejected = "REPROVADO"
)

// Column names of the REGISTRO_DEVOLUCOES tab.
const (
	ColProcessID     = "ID_PROCESSO"
	ColProcessNF     = "NF"
	ColProcessStatus = "STATUS"
)

// Timestamp layouts used in the spreadsheet. Process dates are
// Brazilian day-first; message timestamps are ISO-like.
const (
	DateTimeLayout = "02/01/2006 15:04:05"
	DateLayout     = "02/01/2006"
)

// Process is one return-shipment case.
type Process struct {
	ID           string `json:"id"`
	NF           string `json:"nf"`
	CTE          string `json:"cte"`
	IssueDate    string `json:"issueDate"`
	CreatedAt    string `json:"createdAt"`
	ReturnDate   string `json:"returnDate"`
	Status       string `json:"status"`
	FiscalStatus string `json:"fiscalStatus"`
	Vehicle      string `json:"vehicle"`
	VehicleType  string `json:"vehicleType"`
	Driver       string `json:"driver"`
	Location     string `json:"location"`
	Destination  string `json:"destination"`
	Reason       string `json:"reason"`
	Responsible  string `json:"responsible"`
	OC           string `json:"oc"`
	LoadOrder    string `json:"loadOrder"`
	CargoType    string `json:"cargoType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	COBCode      string `json:"cobCode"`
	COBDate      string `json:"cobDate"`
	CTECode      string `json:"cteCode"`
	NFDLink      string `json:"nfdLink"`
	COBLink      string `json:"cobLink"`
	CTELink      string `json:"cteLink"`
}

// ProcessFromRow maps a spreadsheet row onto a Process. Absent columns
// read as empty strings; nothing is validated here.
func ProcessFromRow(row sheetdb.Row) Process {
	return Process{
		ID:           row[ColProcessID],
		NF:           row[ColProcessNF],
		CTE:          row["CTE"],
		IssueDate:    row["DATA_EMISSAO"],
		CreatedAt:    row["DATA_CRIACAO"],
		ReturnDate:   row["DATA_DEVOLUCAO_CTE"],
		Status:       row[ColProcessStatus],
		FiscalStatus: row["STATUS_FISCAL"],
		Vehicle:      row["VEICULO"],
		VehicleType:  row["TIPO_VEICULO"],
		Driver:       row["MOTORISTA"],
		Location:     row["LOCAL"],
		Destination:  row["LOCAL_DESTINO"],
		Reason:       row["MOTIVO"],
		Responsible:  row["RESPONSAVEL"],
		OC:           row["OC"],
		LoadOrder:    row["ORDEM_DE_CARGA"],
		CargoType:    row["TIPO_CARGA"],
		StartDate:    row["DATA_INICIO"],
		EndDate:      row["DATA_FIM"],
		COBCode:      row["COD_COB"],
		COBDate:      row["COB_DATA"],
		CTECode:      row["COD_CTE"],
		NFDLink:      row["LINK_NFD"],
		COBLink:      row["COB_ANEXO"],
		CTELink:      row["CTE_ANEXO"],
	}
}

// ToRow maps the process onto spreadsheet columns.
func (p Process) ToRow() sheetdb.Row {
	return sheetdb.Row{
		ColProcessID:         p.ID,
		ColProcessNF:         p.NF,
		"CTE":                p.CTE,
		"DATA_EMISSAO":       p.IssueDate,
		"DATA_CRIACAO":       p.CreatedAt,
		"DATA_DEVOLUCAO_CTE": p.ReturnDate,
		ColProcessStatus:     p.Status,
		"STATUS_FISCAL":      p.FiscalStatus,
		"VEICULO":            p.Vehicle,
		"TIPO_VEICULO":       p.VehicleType,
		"MOTORISTA":          p.Driver,
		"LOCAL":              p.Location,
		"LOCAL_DESTINO":      p.Destination,
		"MOTIVO":             p.Reason,
		"RESPONSAVEL":        p.Responsible,
		"OC":                 p.OC,
		"ORDEM_DE_CARGA":     p.LoadOrder,
		"TIPO_CARGA":         p.CargoType,
		"DATA_INICIO":        p.StartDate,
		"DATA_FIM":           p.EndDate,
		"COD_COB":            p.COBCode,
		"COB_DATA":           p.COBDate,
		"COD_CTE":            p.CTECode,
		"LINK_NFD":           p.NFDLink,
		"COB_ANEXO":          p.COBLink,
		"CTE_ANEXO":          p.CTELink,
	}
}

// IssueDateTime parses the day-first issue date, zero time on failure.
func (p Process) IssueDateTime() time.Time {
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.Parse(layout, p.IssueDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
