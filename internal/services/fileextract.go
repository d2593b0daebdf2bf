package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileExtractService decodes uploaded files into plain text, keyed by file
// extension.
type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// ExtractText decodes the uploaded bytes based on the filename's extension.
// Unknown extensions yield *UnsupportedFormatError; a recognized extension
// whose decoder cannot produce text yields *ParserUnavailableError.
func (s *FileExtractService) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".txt", ".md":
		return s.extractPlain(ext, data)
	case ".pdf":
		return s.extractPDF(data)
	case ".docx":
		return s.extractDOCX(data)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

func (s *FileExtractService) extractPlain(ext string, data []byte) (string, error) {
	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", &ParserUnavailableError{Ext: ext, Err: fmt.Errorf("file is empty")}
	}
	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParserUnavailableError{Ext: ".pdf", Err: err}
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("Page %d:\n%s\n\n", pageIndex, content))
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", &ParserUnavailableError{Ext: ".pdf", Err: fmt.Errorf("no extractable text found")}
	}
	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParserUnavailableError{Ext: ".docx", Err: err}
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ParserUnavailableError{Ext: ".docx", Err: err}
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", &ParserUnavailableError{Ext: ".docx", Err: err}
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return "", &ParserUnavailableError{Ext: ".docx", Err: fmt.Errorf("document.xml not found")}
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", &ParserUnavailableError{Ext: ".docx", Err: fmt.Errorf("no extractable text found")}
	}
	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	// Remove all xml tags
	s = xmlTagPattern.ReplaceAllString(s, "")

	// Basic XML entities
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
