package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHtmlToText(t *testing.T) {
	got := htmlToText("<p>First line</p><p>Second<br>Third</p>")
	assert.Equal(t, "First line\nSecond\nThird", got)
}

func TestHtmlToTextCollapsesEmptyParagraphs(t *testing.T) {
	got := htmlToText("<p>A</p><p></p><p></p><p>B</p>")
	assert.Equal(t, "A\n\nB", got, "runs of empty paragraphs collapse to one blank line")
}

func TestHtmlToTextDecodesEntities(t *testing.T) {
	got := htmlToText("<p>Makati&nbsp;&amp;&nbsp;Manila &lt;Ward 5&gt; &quot;ER&quot; &#39;ICU&#39;</p>")
	assert.Equal(t, `Makati & Manila <Ward 5> "ER" 'ICU'`, got)
}

func TestHtmlToTextStripsUnknownTags(t *testing.T) {
	got := htmlToText(`<span style="x">Staff</span> <b>Nurse</b>`)
	assert.Equal(t, "Staff Nurse", got)
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>MARIA SANTOS</w:t></w:r></w:p>
    <w:p><w:r><w:t>Staff Nurse</w:t></w:r><w:r><w:br/></w:r><w:r><w:t>Makati &amp; Manila</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>IV Therapy</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

func TestDecodeDOCX(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)
	got, err := decodeDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "MARIA SANTOS\nStaff Nurse\nMakati & Manila\nIV Therapy", got)
}

func TestDecodeDOCXTabBecomesSpace(t *testing.T) {
	xmlBody := `<w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:r><w:t>Staff Nurse</w:t></w:r><w:r><w:tab/></w:r><w:r><w:t>ICU</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	got, err := decodeDOCX(buildDocx(t, xmlBody))
	require.NoError(t, err)
	assert.Equal(t, "Staff Nurse ICU", got)
}

func TestDecodeDOCXIgnoresNonTextCharData(t *testing.T) {
	xmlBody := `<w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:pPr>styling noise</w:pPr><w:r><w:t>Real text</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	got, err := decodeDOCX(buildDocx(t, xmlBody))
	require.NoError(t, err)
	assert.Equal(t, "Real text", got, "only w:t character data is body text")
}

func TestDecodeDOCXNotAZip(t *testing.T) {
	_, err := decodeDOCX([]byte("plainly not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestDecodeDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = decodeDOCX(buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	d := &DocumentDecoder{}
	for _, name := range []string{"resume.txt", "resume.png", "resume"} {
		_, err := d.Decode(context.Background(), []byte("data"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestDecodeExtensionIsCaseInsensitive(t *testing.T) {
	d := &DocumentDecoder{}
	got, err := d.Decode(context.Background(), buildDocx(t, sampleDocumentXML), "Resume.DOCX")
	require.NoError(t, err)
	assert.Contains(t, got, "MARIA SANTOS")
}
