package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

// DOCX is a zip archive; the body lives in word/document.xml as WordprocessingML.
// We walk the XML once, emit a minimal HTML rendition (paragraphs, breaks, table
// rows), then flatten it with htmlToText so every decode path shares one
// whitespace contract.

const docxDocumentPath = "word/document.xml"

func decodeDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx is not a zip archive: %v", ErrExtractionFailed, err)
	}

	var docFile *zip.File
	for _, f := range reader.File {
		if f.Name == docxDocumentPath {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: docx missing %s", ErrExtractionFailed, docxDocumentPath)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx open document part: %v", ErrExtractionFailed, err)
	}
	defer rc.Close()

	htmlText, err := docxXMLToHTML(rc)
	if err != nil {
		return "", fmt.Errorf("%w: docx parse document part: %v", ErrExtractionFailed, err)
	}
	return htmlToText(htmlText), nil
}

// docxXMLToHTML renders the WordprocessingML body as minimal HTML. Only the
// structural elements that affect line breaks are honoured: w:p, w:br, w:cr,
// w:tab, w:tr, and w:t text runs.
func docxXMLToHTML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				sb.WriteString("<p>")
			case "tr":
				sb.WriteString("<tr>")
			case "br", "cr":
				sb.WriteString("<br>")
			case "tab":
				sb.WriteString(" ")
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				sb.WriteString("</p>")
			case "tr":
				sb.WriteString("</tr>")
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.WriteString(html.EscapeString(string(t)))
			}
		}
	}
	return sb.String(), nil
}
