package agent

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xprabhudayal/genai/internal/models"
	"github.com/xprabhudayal/genai/pkg/logger"
)

// buildPDF writes a minimal uncompressed PDF with one text line per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `<w:p></w:p></w:body></w:document>`},
		{"docProps/core.xml", `<?xml version="1.0"?><cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Lease</dc:title><dc:creator>Landlord</dc:creator></cp:coreProperties>`},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_PDF(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())

	got, err := f.ExtractText(context.Background(), models.MimePDF, buildPDF("Whereas the Party agrees", "Termination pursuant to Section 5"))
	require.NoError(t, err)
	assert.Contains(t, got, "Whereas the Party agrees")
	assert.Contains(t, got, "Termination pursuant to Section 5")
	assert.Less(t, bytes.Index([]byte(got), []byte("Whereas")), bytes.Index([]byte(got), []byte("Termination")))
}

func TestExtractText_DOCX(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())

	got, err := f.ExtractText(context.Background(), models.MimeDOCX, buildDocx(t, "The Lessee shall pay rent.", "Notwithstanding the foregoing, the Lessor may terminate."))
	require.NoError(t, err)
	assert.Equal(t, "The Lessee shall pay rent.\n\nNotwithstanding the foregoing, the Lessor may terminate.", got)

	p, err := f.GetProcessor(models.MimeDOCX)
	require.NoError(t, err)
	meta, err := p.ExtractMetadata(context.Background(), bytes.NewReader(buildDocx(t, "x")))
	require.NoError(t, err)
	assert.Equal(t, "Lease", meta.Title)
	assert.Equal(t, "Landlord", meta.Author)
	assert.Equal(t, models.Word, meta.FileType)
}

func TestExtractText_Text(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())

	got, err := f.ExtractText(context.Background(), "text/plain; charset=utf-8", []byte("\xef\xbb\xbfWhereas the parties\nagree.\r\n\r\n\r\nSection 2 applies.   \n"))
	require.NoError(t, err)
	assert.Equal(t, "Whereas the parties\nagree.\n\nSection 2 applies.", got)
}

func TestExtractText_Failures(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())
	ctx := context.Background()

	_, err := f.ExtractText(ctx, "image/png", []byte("png"))
	assert.Error(t, err)

	_, err = f.ExtractText(ctx, models.MimePDF, []byte("not a pdf"))
	assert.Error(t, err)

	_, err = f.ExtractText(ctx, models.MimeDOCX, []byte("not a zip"))
	assert.Error(t, err)

	_, err = f.ExtractText(ctx, models.MimeTXT, []byte("\n   \n"))
	assert.ErrorIs(t, err, ErrNoText)

	_, err = f.ExtractText(ctx, models.MimeTXT, []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)

	assert.NoError(t, f.Close())
}
