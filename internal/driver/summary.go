package driver

import (
	"bytes"
	"encoding/gob"

	"github.com/funvibe/cppgo/internal/ctu"
)

// ctuEntries is the driver-owned shape stashed inside cache.Record's opaque
// SummaryBlob (cache never parses it, per its own doc comment). gob is the
// plain stdlib choice here rather than another pack dependency: this blob
// is private to this package on both ends of the round trip, so there is no
// interop surface for a richer format (yaml/protobuf) to earn its keep on —
// it would only be serializing driver-internal Go values back to the same
// driver.
type ctuEntries struct {
	Summaries []ctu.FunctionSummary
	Calls     []ctu.CallSite
}

func encodeSummaryBlob(entries []interface{}) []byte {
	var e ctuEntries
	for _, raw := range entries {
		switch v := raw.(type) {
		case ctu.FunctionSummary:
			e.Summaries = append(e.Summaries, v)
		case ctu.CallSite:
			e.Calls = append(e.Calls, v)
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		// Entries are plain data structs with no unencodable fields
		// (funcs, chans); a gob failure here means a programming error,
		// not a runtime condition worth surfacing as a diagnostic.
		return nil
	}
	return buf.Bytes()
}

func decodeSummaryBlob(blob []byte) []interface{} {
	if len(blob) == 0 {
		return nil
	}
	var e ctuEntries
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&e); err != nil {
		return nil
	}
	out := make([]interface{}, 0, len(e.Summaries)+len(e.Calls))
	for _, s := range e.Summaries {
		out = append(out, s)
	}
	for _, c := range e.Calls {
		out = append(out, c)
	}
	return out
}
