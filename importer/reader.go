package importer

import "fmt"

// Reader turns a whole file into rows of cells. The first row is the header
// row; data rows whose cells are all empty are already dropped.
type Reader interface {
	Read(data []byte) ([][]string, error)
}

func ReaderForFileType(fileType FileType) (Reader, error) {
	switch fileType {
	case FileTypeCSV:
		return &CSVReader{}, nil
	case FileTypeExcel:
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", fileType)
	}
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if cell != "" {
			return false
		}
	}
	return true
}
