// Package cache implements the persistent build-dir cache (§6 "Persistent
// cache layout"): a tagged, forward-compatible record encoding built on
// protobuf's wire format primitives, stored in a sqlite-backed
// fingerprint index with per-fingerprint exclusive write locking (§5
// "Shared-resource policy").
package cache

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/funvibe/cppgo/internal/diag"
)

// Field numbers for Record (§6 "Format must be self-describing... records
// are tagged; unknown tags are skipped on read"). Adding a field means
// picking a new, never-before-used number; removing one just stops
// writing it — old readers skip it via protowire.ConsumeFieldValue,
// forward-compatible readers skip what they don't recognize.
const (
	fieldFingerprint = protowire.Number(1)
	fieldDiagnostic  = protowire.Number(2) // repeated
	fieldSummaryBlob = protowire.Number(3)
)

// Diagnostic submessage field numbers.
const (
	dFieldID             = protowire.Number(1)
	dFieldSeverity       = protowire.Number(2)
	dFieldCertainty      = protowire.Number(3)
	dFieldCWE            = protowire.Number(4)
	dFieldShortMessage   = protowire.Number(5)
	dFieldVerboseMessage = protowire.Number(6)
	dFieldCallStack      = protowire.Number(7) // repeated Location submessage
	dFieldSymbolName     = protowire.Number(8) // repeated
	dFieldHash           = protowire.Number(9)
)

// Location submessage field numbers.
const (
	lFieldFile   = protowire.Number(1)
	lFieldLine   = protowire.Number(2)
	lFieldColumn = protowire.Number(3)
)

// Record is one cache entry: the fingerprint it was written under, the
// TU's emitted diagnostics, and an opaque CTU-summary blob the driver
// owns the shape of (§6 "the TU's emitted diagnostics plus its CTU
// summary" — cache only needs to round-trip the summary bytes, not parse
// them, so it never imports internal/ctu).
type Record struct {
	Fingerprint string
	Diagnostics []diag.Diagnostic
	SummaryBlob []byte
}

// Encode serializes r into the tagged wire format described above.
func Encode(r Record) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldFingerprint, protowire.BytesType)
	b = protowire.AppendString(b, r.Fingerprint)
	for _, d := range r.Diagnostics {
		b = protowire.AppendTag(b, fieldDiagnostic, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeDiagnostic(d))
	}
	if len(r.SummaryBlob) > 0 {
		b = protowire.AppendTag(b, fieldSummaryBlob, protowire.BytesType)
		b = protowire.AppendBytes(b, r.SummaryBlob)
	}
	return b
}

// Decode parses bytes written by Encode. Any field number this version of
// Decode does not recognize is skipped via protowire.ConsumeFieldValue
// rather than rejected, so a cache written by a newer tool version stays
// readable by an older one (§6 "forward-compatible").
func Decode(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, fmt.Errorf("cache: malformed tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldFingerprint:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return Record{}, fmt.Errorf("cache: malformed fingerprint field: %w", protowire.ParseError(m))
			}
			r.Fingerprint = s
			b = b[m:]
		case fieldDiagnostic:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Record{}, fmt.Errorf("cache: malformed diagnostic field: %w", protowire.ParseError(m))
			}
			d, err := decodeDiagnostic(v)
			if err != nil {
				return Record{}, err
			}
			r.Diagnostics = append(r.Diagnostics, d)
			b = b[m:]
		case fieldSummaryBlob:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Record{}, fmt.Errorf("cache: malformed summary field: %w", protowire.ParseError(m))
			}
			r.SummaryBlob = append([]byte(nil), v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return Record{}, fmt.Errorf("cache: malformed unknown field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

func encodeDiagnostic(d diag.Diagnostic) []byte {
	var b []byte
	b = protowire.AppendTag(b, dFieldID, protowire.BytesType)
	b = protowire.AppendString(b, d.ID)
	b = protowire.AppendTag(b, dFieldSeverity, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(d.Severity))
	b = protowire.AppendTag(b, dFieldCertainty, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(d.Certainty))
	if d.CWE != 0 {
		b = protowire.AppendTag(b, dFieldCWE, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d.CWE))
	}
	b = protowire.AppendTag(b, dFieldShortMessage, protowire.BytesType)
	b = protowire.AppendString(b, d.ShortMessage)
	if d.VerboseMessage != "" {
		b = protowire.AppendTag(b, dFieldVerboseMessage, protowire.BytesType)
		b = protowire.AppendString(b, d.VerboseMessage)
	}
	for _, loc := range d.CallStack {
		b = protowire.AppendTag(b, dFieldCallStack, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeLocation(loc))
	}
	for _, name := range d.SymbolNames {
		b = protowire.AppendTag(b, dFieldSymbolName, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	if d.Hash != 0 {
		b = protowire.AppendTag(b, dFieldHash, protowire.VarintType)
		b = protowire.AppendVarint(b, d.Hash)
	}
	return b
}

func decodeDiagnostic(b []byte) (diag.Diagnostic, error) {
	var d diag.Diagnostic
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return diag.Diagnostic{}, fmt.Errorf("cache: malformed diagnostic tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case dFieldID:
			s, m := protowire.ConsumeString(b)
			d.ID, b = s, b[m:]
		case dFieldSeverity:
			v, m := protowire.ConsumeVarint(b)
			d.Severity, b = diag.Severity(v), b[m:]
		case dFieldCertainty:
			v, m := protowire.ConsumeVarint(b)
			d.Certainty, b = diag.Certainty(v), b[m:]
		case dFieldCWE:
			v, m := protowire.ConsumeVarint(b)
			d.CWE, b = int(v), b[m:]
		case dFieldShortMessage:
			s, m := protowire.ConsumeString(b)
			d.ShortMessage, b = s, b[m:]
		case dFieldVerboseMessage:
			s, m := protowire.ConsumeString(b)
			d.VerboseMessage, b = s, b[m:]
		case dFieldCallStack:
			v, m := protowire.ConsumeBytes(b)
			loc, err := decodeLocation(v)
			if err != nil {
				return diag.Diagnostic{}, err
			}
			d.CallStack = append(d.CallStack, loc)
			b = b[m:]
		case dFieldSymbolName:
			s, m := protowire.ConsumeString(b)
			d.SymbolNames = append(d.SymbolNames, s)
			b = b[m:]
		case dFieldHash:
			v, m := protowire.ConsumeVarint(b)
			d.Hash, b = v, b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return diag.Diagnostic{}, fmt.Errorf("cache: malformed unknown diagnostic field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return d, nil
}

func encodeLocation(l diag.Location) []byte {
	var b []byte
	b = protowire.AppendTag(b, lFieldFile, protowire.BytesType)
	b = protowire.AppendString(b, l.File)
	b = protowire.AppendTag(b, lFieldLine, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(l.Line))
	b = protowire.AppendTag(b, lFieldColumn, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(l.Column))
	return b
}

func decodeLocation(b []byte) (diag.Location, error) {
	var l diag.Location
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return diag.Location{}, fmt.Errorf("cache: malformed location tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case lFieldFile:
			s, m := protowire.ConsumeString(b)
			l.File, b = s, b[m:]
		case lFieldLine:
			v, m := protowire.ConsumeVarint(b)
			l.Line, b = int(v), b[m:]
		case lFieldColumn:
			v, m := protowire.ConsumeVarint(b)
			l.Column, b = int(v), b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return diag.Location{}, fmt.Errorf("cache: malformed unknown location field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return l, nil
}
