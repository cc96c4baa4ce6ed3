package importer

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader parses comma separated text. Quoted fields keep embedded commas,
// line breaks and surrounding whitespace; "" inside quotes is a literal quote.
// Unquoted fields are trimmed.
type CSVReader struct{}

func (r *CSVReader) Read(data []byte) ([][]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, &FormatError{FileType: FileTypeCSV, Err: err}
	}

	rows := make([][]string, 0, 64)
	for _, row := range tokenizeCSV(text) {
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) < 2 {
		return nil, &StructuralError{FileType: FileTypeCSV, Lines: len(rows)}
	}

	return rows, nil
}

// decodeText converts UTF-8 (optionally with BOM) or BOM-marked UTF-16 input
// to a Go string.
func decodeText(data []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	if strings.IndexByte(string(decoded), 0) >= 0 {
		return "", errors.New("file contains binary data")
	}
	return string(decoded), nil
}

func tokenizeCSV(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		quoted   bool
		inQuotes bool
	)

	endField := func() {
		value := field.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		row = append(row, value)
		field.Reset()
		quoted = false
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			if !quoted && strings.TrimSpace(field.String()) == "" {
				field.Reset()
				quoted = true
				inQuotes = true
				continue
			}
			field.WriteByte(c)
		case ',':
			endField()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			endRow()
		case '\n':
			endRow()
		case ' ', '\t':
			// Padding after a closing quote is not part of the value.
			if !quoted {
				field.WriteByte(c)
			}
		default:
			field.WriteByte(c)
		}
	}

	if field.Len() > 0 || quoted || len(row) > 0 {
		endRow()
	}

	return rows
}
