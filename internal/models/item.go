package models

import (
	"fmt"

	"github.com/maroso-log/devtrack/internal/sheetdb"
	"github.com/maroso-log/devtrack/internal/utils"
)

// Column names of the REGISTRO_ITENS tab.
const (
	ColItemID        = "ID_ITEM"
	ColItemProcessID = "ID_PROCESSO"
)

// Item is one line entry belonging to a process. Items are inserted in
// a batch when the process is finalized and never mutated afterwards;
// deleting the process removes them en masse.
type Item struct {
	ID           string  `json:"id"`
	ProcessID    string  `json:"processId"`
	RegisteredAt string  `json:"registeredAt"`
	NFD          string  `json:"nfd"`
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	UnitValue    float64 `json:"unitValue"`
	TotalValue   float64 `json:"totalValue"`
}

// ItemFromRow maps a spreadsheet row onto an Item. Numeric cells go
// through the locale-tolerant parser and default to zero.
func ItemFromRow(row sheetdb.Row) Item {
	return Item{
		ID:           row[ColItemID],
		ProcessID:    row[ColItemProcessID],
		RegisteredAt: row["DATA_REGISTRO"],
		NFD:          row["NUMERO_NFD"],
		Code:         row["COD_ITEM"],
		Description:  row["DESCRICAO"],
		Quantity:     utils.ParseDecimal(row["QTD"]),
		UnitValue:    utils.ParseDecimal(row["VALOR_UNIT"]),
		TotalValue:   utils.ParseDecimal(row["VALOR_TOTAL"]),
	}
}

// ToRow maps the item onto spreadsheet columns. The total is always
// recomputed from quantity and unit value, never trusted from input.
func (i Item) ToRow() sheetdb.Row {
	total := i.Quantity * i.UnitValue
	return sheetdb.Row{
		ColItemID:        i.ID,
		ColItemProcessID: i.ProcessID,
		"DATA_REGISTRO":  i.RegisteredAt,
		"NUMERO_NFD":     i.NFD,
		"COD_ITEM":       i.Code,
		"DESCRICAO":      i.Description,
		"QTD":            fmt.Sprintf("%g", i.Quantity),
		"VALOR_UNIT":     fmt.Sprintf("%.2f", i.UnitValue),
		"VALOR_TOTAL":    fmt.Sprintf("%.2f", total),
	}
}
