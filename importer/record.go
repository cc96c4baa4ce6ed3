package importer

import (
	"strings"
)

// Record is one data row keyed by canonical field. RowNumber is the 1-based
// position among data rows, header excluded.
type Record struct {
	RowNumber int
	Values    map[Field]string
}

func (r Record) Get(fields ...Field) string {
	for _, field := range fields {
		if value, ok := r.Values[field]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// buildRecords maps the header row onto canonical fields and keys every data
// row by them. It also reports which header convention the batch follows.
func buildRecords(rows [][]string) ([]Record, HeaderStyle) {
	if len(rows) == 0 {
		return nil, StyleMachine
	}

	headers := make([]Field, len(rows[0]))
	style, sawKnown, sawTags := StyleMachine, false, false
	for i, header := range rows[0] {
		field, headerStyle, known := defaultHeaders.resolve(header)
		headers[i] = field
		if !known || sawTags {
			continue
		}
		if field == FieldTags {
			style, sawTags = headerStyle, true
			continue
		}
		if !sawKnown {
			style, sawKnown = headerStyle, true
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		values := make(map[Field]string, len(headers))
		for col, field := range headers {
			if _, taken := values[field]; taken {
				// First column wins when two headers resolve to one field.
				continue
			}
			if col < len(row) {
				values[field] = row[col]
			} else {
				values[field] = ""
			}
		}
		records = append(records, Record{RowNumber: i + 1, Values: values})
	}

	return records, style
}
