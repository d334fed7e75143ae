package export

import (
	"encoding/json"

	"github.com/gorewood/tracker/internal/output"
)

// FormatJSON writes the report as JSON to the printer.
func FormatJSON(printer *output.Printer, r Report) error {
	return printer.WriteJSON(r)
}

// MarshalJSON returns the indented JSON encoding of the report.
func MarshalJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal report", err)
	}
	return append(data, '\n'), nil
}
