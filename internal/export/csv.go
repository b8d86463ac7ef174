// Package export serialises a chat table for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/waviz/waviz/internal/chat"
)

// Filename is the fixed name offered for the CSV download.
const Filename = "chat.csv"

// MIMEType is the content type of the CSV download.
const MIMEType = "text/csv"

// timestampLayout keeps timestamps lossless and sortable.
const timestampLayout = "2006-01-02 15:04:05"

// CSV renders the table as UTF-8 CSV with a leading index column holding
// each record's original parse index.
func CSV(t chat.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"", "timestamp", "username", "message"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range t {
		row := []string{
			strconv.Itoa(r.Index),
			r.Timestamp.Format(timestampLayout),
			r.Username,
			r.Message,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", r.Index, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
