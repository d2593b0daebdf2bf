package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func makeDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	svc := NewFileExtractService()

	text, err := svc.ExtractText("notes.txt", []byte("Line one\r\n\r\n\r\nLine two  \n"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "Line one\n\nLine two" {
		t.Errorf("Unexpected normalized text: %q", text)
	}
}

func TestExtractText_Markdown(t *testing.T) {
	svc := NewFileExtractService()

	text, err := svc.ExtractText("README.md", []byte("# Title\n\nBody"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "# Title") {
		t.Errorf("Expected markdown preserved, got %q", text)
	}
}

func TestExtractText_EmptyFile(t *testing.T) {
	svc := NewFileExtractService()

	_, err := svc.ExtractText("empty.txt", []byte("   \n  \n"))
	var pe *ParserUnavailableError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ParserUnavailableError, got %v", err)
	}
}

func TestExtractText_DOCX(t *testing.T) {
	svc := NewFileExtractService()

	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Fish &amp; chips</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := svc.ExtractText("essay.docx", makeDOCX(t, doc))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "First paragraph") {
		t.Errorf("Missing paragraph text: %q", text)
	}
	if !strings.Contains(text, "Fish & chips") {
		t.Errorf("Expected entities decoded: %q", text)
	}
}

func TestExtractText_DOCXNotAZip(t *testing.T) {
	svc := NewFileExtractService()

	_, err := svc.ExtractText("essay.docx", []byte("this is not a zip archive"))
	var pe *ParserUnavailableError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ParserUnavailableError, got %v", err)
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	svc := NewFileExtractService()

	_, err := svc.ExtractText("slides.pptx", []byte("data"))
	var ue *UnsupportedFormatError
	if !errors.As(err, &ue) {
		t.Fatalf("Expected UnsupportedFormatError, got %v", err)
	}
	if ue.Ext != ".pptx" {
		t.Errorf("Expected extension in error, got %q", ue.Ext)
	}
}

func TestStripDOCXML_Breaks(t *testing.T) {
	src := `<w:p><w:r><w:t>one</w:t></w:r></w:p><w:p><w:r><w:t>two</w:t><w:br/><w:t>three</w:t></w:r></w:p>`
	got := stripDOCXML([]byte(src))
	for _, want := range []string{"one\n", "two\n", "three"} {
		if !strings.Contains(got, want) {
			t.Errorf("stripDOCXML missing %q in %q", want, got)
		}
	}
}
