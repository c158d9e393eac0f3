package output

import (
	"encoding/json"
	"io"

	"ispcr/internal/report"
)

// WriteJSON writes the whole run as one v1 document, two-space indented.
// Primer and assembly ids are written without HTML escaping.
func WriteJSON(w io.Writer, rep report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(ToAPIReport(rep))
}
