package sheetdb

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"
)

var processIDPattern = regexp.MustCompile(`^#DEV(\d{6})-(\d+)$`)

// IDGenerator produces the next process identifier in the form
// #DEV<YYYYMM>-<seq3>. Sequences are scoped per year-month: January
// and February both start at 001.
//
// When the process table cannot be scanned, the generator degrades to
// a timestamp identifier (#DEV<YYYYMMDD-HHMMSS>). Uniqueness is never
// sacrificed, only readability and sequentiality; two fallback IDs
// minted within the same second would collide, a window equal to the
// clock resolution.
type IDGenerator struct {
	load func() ([]Row, error)
	now  func() time.Time
}

// NewIDGenerator builds a generator scanning the process table through
// the given reader.
func NewIDGenerator(reader Reader) *IDGenerator {
	return &IDGenerator{
		load: func() ([]Row, error) { return reader.LoadFresh(TableProcesses) },
		now:  time.Now,
	}
}

// NextProcessID returns the next identifier for the current year-month.
func (g *IDGenerator) NextProcessID() string {
	now := g.now()
	yearMonth := now.Format("200601")

	rows, err := g.load()
	if err != nil {
		log.Printf("⚠️ IDGen: process table scan failed, using timestamp ID: %v", err)
		return g.fallback(now)
	}

	maxSeq := 0
	for _, row := range rows {
		id := row["ID_PROCESSO"]
		match := processIDPattern.FindStringSubmatch(id)
		if match == nil || match[1] != yearMonth {
			continue
		}
		seq, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("#DEV%s-%03d", yearMonth, maxSeq+1)
}

func (g *IDGenerator) fallback(now time.Time) string {
	return "#DEV" + now.Format("20060102-150405")
}
