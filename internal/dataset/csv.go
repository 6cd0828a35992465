package dataset

import "strings"

// ParseCSV converts raw delimited text into the header list and the ordered
// record sequence. The parser is deliberately permissive: it never fails on
// malformed quoting, an unterminated quote at end of input is treated as
// implicitly closed, and short rows are filled with empty trailing fields.
// Strict RFC 4180 validation is an explicit non-goal; availability wins over
// strictness because one ragged row must never abort the whole load.
//
// Quoted fields may contain commas and newlines; a doubled quote inside a
// quoted field is an escaped literal quote.
func ParseCSV(text string) ([]string, []Record) {
	var (
		result   [][]string
		current  []string
		col      strings.Builder
		inQuotes bool
	)

	flushField := func() {
		current = append(current, strings.TrimSpace(col.String()))
		col.Reset()
	}
	flushRow := func() {
		flushField()
		result = append(result, current)
		current = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inQuotes {
			switch {
			case ch == '"' && i+1 < len(text) && text[i+1] == '"':
				col.WriteByte('"')
				i++ // skip escaped quote
			case ch == '"':
				inQuotes = false
			default:
				col.WriteByte(ch)
			}
			continue
		}
		switch {
		case ch == '"':
			inQuotes = true
		case ch == ',':
			flushField()
		case ch == '\n':
			flushRow()
		case ch == '\r' && i+1 < len(text) && text[i+1] == '\n':
			flushRow()
			i++ // skip \n
		default:
			col.WriteByte(ch)
		}
	}

	// Final residue: a pending field or row is flushed as a last row.
	if col.Len() > 0 || len(current) > 0 {
		flushRow()
	}

	if len(result) == 0 {
		return []string{}, []Record{}
	}

	headers := make([]string, len(result[0]))
	for i, h := range result[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Record, 0, len(result)-1)
	for _, line := range result[1:] {
		row := make(Record, len(headers))
		for i, h := range headers {
			if i < len(line) {
				row[h] = line[i]
			} else {
				row[h] = ""
			}
		}
		// Values beyond the header length are silently dropped.
		rows = append(rows, row)
	}
	return headers, rows
}
