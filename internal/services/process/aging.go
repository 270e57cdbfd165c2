package process

import (
	"fmt"
	"time"

	"github.com/maroso-log/devtrack/internal/models"
)

// Age buckets for a process, measured from the CTE issue date. The
// operation has ten- and twenty-day treatment deadlines.
const (
	AgeNoDate      = "SEM DATA"
	AgeInvalidDate = "DATA INVÁLIDA"
	AgeFresh       = "FRESCO (<3 dias)"
	AgeAttention   = "ATENÇÃO (<5 dias)"
	AgeWithin10    = "DENTRO DO PRAZO DE 10"
	AgeWithin20    = "DENTRO DO PRAZO DE 20"
)

// AgeInfo classifies how long a process has been open.
type AgeInfo struct {
	Label string `json:"label"`
	Days  int    `json:"days"`
}

// Age buckets the elapsed days since the issue date. Missing or
// unparseable dates get their own buckets instead of failing.
func (s *Service) Age(issueDate string) AgeInfo {
	if issueDate == "" {
		return AgeInfo{Label: AgeNoDate}
	}

	var issued time.Time
	var err error
	for _, layout := range []string{models.DateTimeLayout, models.DateLayout} {
		if issued, err = time.Parse(layout, issueDate); err == nil {
			break
		}
	}
	if err != nil {
		return AgeInfo{Label: AgeInvalidDate}
	}

	days := int(s.now().Sub(issued).Hours() / 24)
	switch {
	case days < 3:
		return AgeInfo{Label: AgeFresh, Days: days}
	case days < 5:
		return AgeInfo{Label: AgeAttention, Days: days}
	case days < 10:
		return AgeInfo{Label: AgeWithin10, Days: days}
	case days < 20:
		return AgeInfo{Label: AgeWithin20, Days: days}
	default:
		return AgeInfo{Label: fmt.Sprintf("ESTOUROU 20 DIAS (%d dias)", days), Days: days}
	}
}
