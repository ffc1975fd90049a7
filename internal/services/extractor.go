package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"evaluno/interview-api/internal/apperrors"
)

type TextExtractor interface {
	Extract(data []byte, filename string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// Extract dispatches on the lower-cased file extension.
func (t *textExtractor) Extract(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt":
		text = strings.ToValidUTF8(string(data), "�")
	default:
		return "", apperrors.New(apperrors.KindUnsupportedFormat, fmt.Sprintf("unsupported file type %q, upload a .pdf, .docx or .txt file", ext))
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", apperrors.New(apperrors.KindExtraction, "no text content found in document")
	}

	return text, nil
}

// extractPDFText fails on the first unreadable page rather than returning a
// partial CV. The pdf package panics on some malformed inputs.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.Wrap(apperrors.KindExtraction, "failed to read PDF", fmt.Errorf("pdf decoder panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtraction, "failed to read PDF", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperrors.Wrap(apperrors.KindExtraction, fmt.Sprintf("failed to read PDF page %d", pageIndex), err)
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtraction, "failed to read DOCX", err)
	}
	defer doc.Close()

	text, err := wordXMLToText(doc.Editable().GetContent())
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindExtraction, "failed to read DOCX body", err)
	}

	return text, nil
}

// wordXMLToText flattens a WordprocessingML body: one line per paragraph.
func wordXMLToText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}

	return b.String(), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
