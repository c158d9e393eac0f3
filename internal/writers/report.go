package writers

import (
	"encoding/json"
	"io"

	"ispcr/internal/jsonlutil"
	"ispcr/internal/output"
	"ispcr/internal/report"
)

// FormatAlign prints region consensus alignments instead of amplicons.
const FormatAlign = "align"

func init() {
	Register(output.FormatText, func(w io.Writer, rep report.Report, o Options) error {
		return output.WriteTSV(w, rep.Amplicons, o.Header)
	})
	Register(output.FormatFASTA, func(w io.Writer, rep report.Report, _ Options) error {
		return output.WriteFASTA(w, rep.Amplicons)
	})
	Register(output.FormatJSON, func(w io.Writer, rep report.Report, _ Options) error {
		return output.WriteJSON(w, rep)
	})
	Register(output.FormatJSONL, writeJSONL)
	Register(FormatAlign, func(w io.Writer, rep report.Report, o Options) error {
		return output.WriteAlignments(w, rep.Regions, o.AlignWidth)
	})
}

// writeJSONL streams each amplicon as one JSON line (v1).
func writeJSONL(w io.Writer, rep report.Report, _ Options) error {
	in, done := jsonlutil.Start[report.Amplicon](w, 64,
		func(enc *json.Encoder, a report.Amplicon) error {
			return enc.Encode(output.ToAPIAmplicon(a))
		},
		brokenPipe,
	)
	for _, a := range rep.Amplicons {
		in <- a
	}
	close(in)
	return <-done
}
