package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"code.sajari.com/docconv"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"nurse-ats-go/internal/logger"
)

// Document decoding: bytes in, line-aware UTF-8 text out. The pipeline treats
// decode failures as survivable (empty text plus a warning), so every format
// branch wraps its fault in ErrExtractionFailed rather than inventing its own.

var (
	// ErrUnsupportedFormat is returned for extensions outside {pdf,docx,doc}.
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	// ErrExtractionFailed wraps any format-specific decode fault.
	ErrExtractionFailed = errors.New("text extraction failed")
)

const pdfDecodeTimeout = 30 * time.Second

// DocumentDecoder dispatches on file extension.
type DocumentDecoder struct {
	pdfParser *pdf.PDFParser
}

// NewDocumentDecoder builds the decoder; the PDF parser is configured to
// return the whole document as one string.
func NewDocumentDecoder(ctx context.Context) (*DocumentDecoder, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	return &DocumentDecoder{pdfParser: p}, nil
}

// Decode extracts plain text from data according to filename's extension.
func (d *DocumentDecoder) Decode(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return d.decodePDF(ctx, data, filename)
	case ".docx":
		return decodeDOCX(data)
	case ".doc":
		return decodeDOC(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (d *DocumentDecoder) decodePDF(ctx context.Context, data []byte, uri string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfDecodeTimeout)
	defer cancel()

	start := time.Now()
	docs, err := d.pdfParser.Parse(ctx, bytes.NewReader(data), einoParser.WithURI(uri))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: pdf parser returned no documents", ErrExtractionFailed)
	}

	// Pages concatenate in document order; page breaks collapse to a blank
	// line.
	var parts []string
	for _, doc := range docs {
		if c := strings.TrimSpace(doc.Content); c != "" {
			parts = append(parts, c)
		}
	}
	text := strings.Join(parts, "\n\n")

	logger.Ctx(ctx).Debug().
		Int("chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Str("uri", uri).
		Msg("pdf text extracted")
	return text, nil
}

func decodeDOC(data []byte) (string, error) {
	text, _, err := docconv.ConvertDoc(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: doc: %v", ErrExtractionFailed, err)
	}
	return strings.TrimSpace(text), nil
}

var (
	brTagRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseRe   = regexp.MustCompile(`(?i)</(?:p|div|li|tr|h[1-6]|blockquote|section|article|header|footer|ul|ol|table|thead|tbody|tfoot)>`)
	anyTagRe       = regexp.MustCompile(`<[^>]+>`)
	tripleNlRe     = regexp.MustCompile(`\n{3,}`)
	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// htmlToText flattens the intermediate HTML: <br> and closing block tags
// become newlines, remaining tags are stripped, the common entity references
// are decoded, and runs of 3+ newlines collapse to a paragraph break.
func htmlToText(html string) string {
	text := brTagRe.ReplaceAllString(html, "\n")
	text = blockCloseRe.ReplaceAllString(text, "\n")
	text = anyTagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = tripleNlRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
