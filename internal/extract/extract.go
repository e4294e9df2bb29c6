// Package extract pulls plain text out of uploaded resume files.
//
// Extraction is best-effort: a broken or unsupported file yields an empty
// string and a warning, never an error. Downstream decides how to treat
// empty text.
package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor converts resume files on disk into plain text.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Text reads the file at path and returns its textual content.
// Format is chosen by extension: .pdf and .docx get structured extraction,
// anything else is read as raw text. Failures log a warning and return "".
func (e *Extractor) Text(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("failed to read resume file",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	default:
		text = strings.ToValidUTF8(string(data), "")
	}
	if err != nil {
		e.logger.Warn("text extraction failed",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

// pdfText extracts page by page so a single corrupt page does not drop
// the whole document. NewReader only validates the header and trailer;
// object resolution is lazy and the library panics on malformed objects,
// so the whole walk runs under a recover.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", rvr)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		content, ok := pdfPageText(r, i)
		if !ok {
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}
	return normalizeWhitespace(strings.Join(pages, "\n")), nil
}

// pdfPageText isolates one page so a panic on its objects skips the page
// instead of aborting the rest of the document.
func pdfPageText(r *pdf.Reader, i int) (content string, ok bool) {
	defer func() {
		if recover() != nil {
			content, ok = "", false
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return "", false
	}
	content, err := p.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return content, true
}

var errMissingDocumentXML = errors.New("no word/document.xml entry in docx archive")

var (
	xmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
	spaceRunRegex  = regexp.MustCompile(`[ \t\r\f\v]+`)
	lineBreakRegex = regexp.MustCompile(`\n+`)
)

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", errMissingDocumentXML
	}
	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return normalizeWhitespace(xmlTagRegex.ReplaceAllString(xml, " ")), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRunRegex.ReplaceAllString(s, " ")
	s = lineBreakRegex.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
