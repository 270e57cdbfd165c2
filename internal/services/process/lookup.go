package process

import (
	"strings"

	"github.com/maroso-log/devtrack/internal/sheetdb"
)

// Column names of the two read-only reference imports. DATABASE_X3 is
// the freight system export, DATABASE_OC the occurrence report export;
// both keep their source systems' human headers.
const (
	colX3NF       = "Nota Fiscal"
	colX3CTE      = "Nº CTe"
	colX3IssueDt  = "Dt. Emissão CTe"
	colX3Vehicle  = "CARRETABARRA"
	colX3VehType  = "Tipo Equip."
	colX3Location = "Cidade Início"
	colX3Driver   = "Motorista"

	colOCReason    = "Notas fiscais - motivo"
	colOCStartDate = "Data do problema"
	colOCEndDate   = "Data do encerramento"
	colOCNumber    = "Ocorrência"
)

// ReferenceData is what the reference tables know about an invoice,
// used to prefill a new process registration.
type ReferenceData struct {
	NF        string `json:"nf"`
	CTE       string `json:"cte"`
	IssueDate string `json:"issueDate"`
	Vehicle   string `json:"vehicle"`
	VehType   string `json:"vehicleType"`
	Driver    string `json:"driver"`
	Location  string `json:"location"`
	OC        string `json:"oc"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// LookupReference searches the two reference tables for an invoice
// number. The freight table is matched exactly first, then by
// substring; the occurrence table only by substring, since one
// occurrence row bundles several invoices in its reason text. The
// second return is false when neither table knows the invoice.
func (s *Service) LookupReference(nf string) (ReferenceData, bool) {
	want := NormalizeNF(nf)
	if want == "" {
		return ReferenceData{}, false
	}

	ref := ReferenceData{NF: want}
	found := false

	if x3 := s.findX3(want); x3 != nil {
		ref.CTE = x3[colX3CTE]
		ref.IssueDate = x3[colX3IssueDt]
		ref.Vehicle = x3[colX3Vehicle]
		ref.VehType = x3[colX3VehType]
		ref.Driver = x3[colX3Driver]
		ref.Location = x3[colX3Location]
		found = true
	}

	if oc := s.findOC(want); oc != nil {
		ref.OC = oc[colOCNumber]
		ref.StartDate = oc[colOCStartDate]
		ref.EndDate = oc[colOCEndDate]
		ref.Reason = extractReason(oc[colOCReason], want)
		found = true
	}

	return ref, found
}

func (s *Service) findX3(nf string) sheetdb.Row {
	rows := s.reader.Load(sheetdb.TableRefX3)

	// Exact match wins over the substring fallback.
	for _, row := range rows {
		if NormalizeNF(row[colX3NF]) == nf {
			return row
		}
	}
	for _, row := range rows {
		if strings.Contains(NormalizeNF(row[colX3NF]), nf) {
			return row
		}
	}
	return nil
}

func (s *Service) findOC(nf string) sheetdb.Row {
	for _, row := range s.reader.Load(sheetdb.TableRefOC) {
		if strings.Contains(row[colOCReason], nf) {
			return row
		}
	}
	return nil
}

// extractReason pulls the reason for one invoice out of the bundled
// occurrence text. Each line reads "<invoice> - <reason>"; the line
// mentioning the invoice is split on its first dash. When no line
// matches, the whole text is returned untouched.
func extractReason(raw, nf string) string {
	if raw == "" {
		return ""
	}
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, nf) {
			continue
		}
		if _, after, ok := strings.Cut(line, "-"); ok {
			return strings.TrimSpace(after)
		}
		return line
	}
	return raw
}
