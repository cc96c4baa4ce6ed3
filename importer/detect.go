package importer

import (
	"bytes"
	"path/filepath"
	"strings"
)

// FileType is the tabular format of an uploaded file.
type FileType string

const (
	FileTypeCSV   FileType = "csv"
	FileTypeExcel FileType = "excel"
)

var (
	zipSignature = []byte{'P', 'K', 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFileType classifies an upload. A known extension wins; otherwise the
// spreadsheet archive signature is checked, and everything else is CSV.
func DetectFileType(fileName string, data []byte) FileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")) {
	case "csv":
		return FileTypeCSV
	case "xlsx", "xlsm", "xls":
		return FileTypeExcel
	}

	if bytes.HasPrefix(data, zipSignature) || bytes.HasPrefix(data, oleSignature) {
		return FileTypeExcel
	}
	return FileTypeCSV
}

// ParseFileType accepts user supplied format names such as "xlsx".
func ParseFileType(value string) (FileType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FileTypeCSV, true
	case "excel", "xlsx", "xlsm", "xls":
		return FileTypeExcel, true
	default:
		return "", false
	}
}
