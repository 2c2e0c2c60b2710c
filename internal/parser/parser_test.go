package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestParseFile_Text(t *testing.T) {
	path := writeFile(t, "notes.md", "\n# Notes\n\nSay this is a test\n\n")

	text, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if text != "# Notes\n\nSay this is a test" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestParseFile_EmptyText(t *testing.T) {
	path := writeFile(t, "empty.txt", "  \n\t ")

	_, err := ParseFile(path)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("Expected ErrEmpty, got %v", err)
	}
}

func TestParseFile_HTML(t *testing.T) {
	path := writeFile(t, "page.html", `<html><head><title>T</title><style>p{}</style></head>
<body><script>var x = 1;</script>
<h1>  Quarterly   report </h1>
<p>Revenue grew.</p><noscript>enable js</noscript>
</body></html>`)

	text, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if text != "Quarterly report\nRevenue grew." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestParseFile_Email(t *testing.T) {
	eml := "From: Ada Lovelace <ada@example.com>\r\n" +
		"To: bob@example.com\r\n" +
		"Subject: Engine notes\r\n" +
		"Date: Mon, 02 Jan 2006 15:04:05 +0000\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		"The analytical engine weaves algebraic patterns.\r\n"
	path := writeFile(t, "note.eml", eml)

	text, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	for _, want := range []string{"Subject: Engine notes", "Sender: Ada Lovelace <ada@example.com>", "Date: 2006-01-02T15:04:05Z", "algebraic patterns"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestParseFile_InvalidPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", "this is not a pdf")

	if _, err := ParseFile(path); err == nil {
		t.Fatalf("Expected error for invalid PDF")
	}
}

func TestParseFile_Unsupported(t *testing.T) {
	path := writeFile(t, "image.png", "\x89PNG")

	_, err := ParseFile(path)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Expected ErrUnsupported, got %v", err)
	}
}

func TestIsSupportedFile(t *testing.T) {
	tests := map[string]bool{
		"report.PDF":   true,
		"a/b/notes.md": true,
		"sheet.xlsx":   true,
		"mail.eml":     true,
		"archive.zip":  false,
		"no-extension": false,
	}
	for in, want := range tests {
		if got := IsSupportedFile(in); got != want {
			t.Errorf("IsSupportedFile(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsTemporaryFile(t *testing.T) {
	tests := map[string]bool{
		"~$report.docx":       true,
		"._report.pdf":        true,
		"download.pdf.part":   true,
		"scan.pdf.crdownload": true,
		".~lock.sheet.xlsx#":  true,
		"report.tmp":          true,
		"report.pdf":          false,
	}
	for in, want := range tests {
		if got := IsTemporaryFile(in); got != want {
			t.Errorf("IsTemporaryFile(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDocxText(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>First</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Value</w:t></w:r></w:p>
</w:body></w:document>`

	got, err := docxText(content)
	if err != nil {
		t.Fatalf("docxText failed: %v", err)
	}
	if got != "First paragraph\nName\tValue" {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestDocxText_Malformed(t *testing.T) {
	tests := map[string]string{
		"mismatched tag": `<w:document><w:p><w:t>First</w:t></w:x></w:document>`,
		"truncated":      `<w:document><w:p><w:t>First</w:t></w:p><w:p><w:t>Sec`,
	}
	for name, content := range tests {
		if got, err := docxText(content); err == nil {
			t.Errorf("%s: expected error, got text %q", name, got)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 150); got != "short" {
		t.Errorf("Expected short text unchanged, got %q", got)
	}

	// "é" is two bytes; byte 5 falls inside the third one
	got := snippet("éééééé", 5)
	if got != "éé..." {
		t.Errorf("Expected %q, got %q", "éé...", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("Snippet split a rune: %q", got)
	}
}

func TestSheetText(t *testing.T) {
	rows := [][]string{
		{"Item", "", "Price"},
		{"Apple", "red", "1.20"},
		{"", "", ""},
		{"Pear", "", " 0.90 "},
	}

	want := "Row 2: Item: Apple, Column 2: red, Price: 1.20\nRow 4: Item: Pear, Price: 0.90"
	if got := sheetText(rows); got != want {
		t.Errorf("Unexpected sheet text.\nExpected: %q\nGot:      %q", want, got)
	}
	if got := sheetText(rows[:1]); got != "" {
		t.Errorf("Expected empty text for header-only sheet, got %q", got)
	}
}
