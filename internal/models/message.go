package models

import (
	"time"

	"github.com/maroso-log/devtrack/internal/sheetdb"
)

// Column names of the REGISTRO_MENSAGENS tab.
const (
	ColMessageID        = "ID_MENSAGEM"
	ColMessageProcessID = "ID_PROCESSO"
	ColMessageTimestamp = "DATA_HORA"
)

// MessageTimeLayout is the timestamp format stored in the sheet.
const MessageTimeLayout = "2006-01-02 15:04:05"

// Message is one chat entry on a process. The feed is append-only and
// always presented sorted by timestamp ascending.
type Message struct {
	ID         string `json:"id"`
	ProcessID  string `json:"processId"`
	Timestamp  string `json:"timestamp"`
	Author     string `json:"author"`
	Text       string `json:"text"`
	Attachment string `json:"attachment,omitempty"`
}

// MessageFromRow maps a spreadsheet row onto a Message.
func MessageFromRow(row sheetdb.Row) Message {
	return Message{
		ID:         row[ColMessageID],
		ProcessID:  row[ColMessageProcessID],
		Timestamp:  row[ColMessageTimestamp],
		Author:     row["USUARIO"],
		Text:       row["TEXTO"],
		Attachment: row["LINK_ANEXO"],
	}
}

// ToRow maps the message onto spreadsheet columns.
func (m Message) ToRow() sheetdb.Row {
	return sheetdb.Row{
		ColMessageID:        m.ID,
		ColMessageProcessID: m.ProcessID,
		ColMessageTimestamp: m.Timestamp,
		"USUARIO":           m.Author,
		"TEXTO":             m.Text,
		"LINK_ANEXO":        m.Attachment,
	}
}

// Time parses the message timestamp, zero time on failure. Unparseable
// timestamps sort first rather than erroring.
func (m Message) Time() time.Time {
	t, err := time.Parse(MessageTimeLayout, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
