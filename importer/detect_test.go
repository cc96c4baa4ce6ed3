package importer

import "testing"

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	zip := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00}
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     FileType
	}{
		{name: "csv extension", fileName: "players.csv", data: []byte("a,b\n1,2"), want: FileTypeCSV},
		{name: "csv extension wins over zip bytes", fileName: "players.CSV", data: zip, want: FileTypeCSV},
		{name: "xlsx extension", fileName: "players.xlsx", data: []byte("anything"), want: FileTypeExcel},
		{name: "xls extension", fileName: "Players.XLS", data: nil, want: FileTypeExcel},
		{name: "no extension zip signature", fileName: "upload", data: zip, want: FileTypeExcel},
		{name: "unknown extension ole signature", fileName: "upload.bin", data: ole, want: FileTypeExcel},
		{name: "no extension text", fileName: "upload", data: []byte("firstName,lastName"), want: FileTypeCSV},
		{name: "empty input", fileName: "", data: nil, want: FileTypeCSV},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectFileType(tc.fileName, tc.data); got != tc.want {
				t.Fatalf("unexpected file type: want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseFileType(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"excel", "XLSX", " xls "} {
		if got, ok := ParseFileType(value); !ok || got != FileTypeExcel {
			t.Fatalf("expected %q to parse as excel, got %q ok=%v", value, got, ok)
		}
	}
	if got, ok := ParseFileType("csv"); !ok || got != FileTypeCSV {
		t.Fatalf("expected csv, got %q ok=%v", got, ok)
	}
	if _, ok := ParseFileType("json"); ok {
		t.Fatalf("expected json to be rejected")
	}
}
