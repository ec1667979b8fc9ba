package exports

import (
	"encoding/csv"
	"fmt"
	"io"

	"salescrm_backend/internal/leads/transport"
)

// WriteCSV writes a header line followed by one line per queue item.
func WriteCSV(w io.Writer, items []transport.QueueItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		if err := writer.Write(Row(item)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
