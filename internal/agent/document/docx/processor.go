package docx

import (
    "archive/zip"
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/xml"
    "errors"
    "fmt"
    "io"
    "strings"
    "time"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
)

const (
    documentPart = "word/document.xml"
    corePart     = "docProps/core.xml"
)

var errNoDocumentPart = errors.New("docx: word/document.xml not found")

// Processor reads paragraph text out of WordprocessingML packages.
type Processor struct {
    logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
    return &Processor{logger: log.Named("docx")}
}

func (p *Processor) CanProcess(mimeType string) bool {
    return mimeType == models.MimeDOCX
}

// Process returns one chunk per non-empty paragraph.
func (p *Processor) Process(ctx context.Context, file io.Reader) ([]models.DocumentChunk, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return nil, fmt.Errorf("failed to read docx: %w", err)
    }
    zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
    if err != nil {
        return nil, fmt.Errorf("failed to open docx: %w", err)
    }

    part, err := openPart(zr, documentPart)
    if err != nil {
        return nil, err
    }
    defer part.Close()

    paras, err := readParagraphs(ctx, part)
    if err != nil {
        return nil, err
    }

    chunks := make([]models.DocumentChunk, 0, len(paras))
    for i, text := range paras {
        chunks = append(chunks, models.DocumentChunk{
            Content: text,
            Metadata: map[string]interface{}{
                "paragraph": i + 1,
                "section":   fmt.Sprintf("paragraph_%d", i+1),
            },
        })
    }

    p.logger.Debug("DOCX processed", logger.Int("paragraphs", len(chunks)))
    return chunks, nil
}

func (p *Processor) ExtractMetadata(ctx context.Context, file io.Reader) (models.DocumentMetadata, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return models.DocumentMetadata{}, err
    }
    zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
    if err != nil {
        return models.DocumentMetadata{}, fmt.Errorf("failed to open docx: %w", err)
    }

    hash := sha256.Sum256(content)
    metadata := models.DocumentMetadata{
        FileType:  models.Word,
        FileSize:  int64(len(content)),
        MimeType:  models.MimeDOCX,
        CreatedAt: time.Now(),
        Hash:      hex.EncodeToString(hash[:]),
    }

    part, err := openPart(zr, corePart)
    if err != nil {
        return metadata, nil
    }
    defer part.Close()

    var core struct {
        Title   string `xml:"title"`
        Creator string `xml:"creator"`
    }
    if err := xml.NewDecoder(part).Decode(&core); err != nil {
        p.logger.Warn("Failed to parse docx core properties", logger.Error(err))
        return metadata, nil
    }
    metadata.Title = core.Title
    metadata.Author = core.Creator
    return metadata, nil
}

func (p *Processor) Close() error {
    return nil
}

func openPart(zr *zip.Reader, name string) (io.ReadCloser, error) {
    for _, f := range zr.File {
        if f.Name == name {
            rc, err := f.Open()
            if err != nil {
                return nil, fmt.Errorf("failed to open %s: %w", name, err)
            }
            return rc, nil
        }
    }
    if name == documentPart {
        return nil, errNoDocumentPart
    }
    return nil, fmt.Errorf("docx: %s not found", name)
}

// readParagraphs streams the document part, joining <w:t> runs per <w:p>.
// Tabs and breaks inside a paragraph become whitespace.
func readParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
    dec := xml.NewDecoder(r)
    var (
        out    []string
        cur    strings.Builder
        inText bool
    )
    for {
        if err := ctx.Err(); err != nil {
            return nil, err
        }
        tok, err := dec.Token()
        if err == io.EOF {
            break
        }
        if err != nil {
            return nil, fmt.Errorf("failed to parse docx xml: %w", err)
        }

        switch t := tok.(type) {
        case xml.StartElement:
            switch t.Name.Local {
            case "t":
                inText = true
            case "tab":
                cur.WriteByte('\t')
            case "br", "cr":
                cur.WriteByte('\n')
            }
        case xml.EndElement:
            switch t.Name.Local {
            case "t":
                inText = false
            case "p":
                if text := strings.TrimSpace(cur.String()); text != "" {
                    out = append(out, text)
                }
                cur.Reset()
            }
        case xml.CharData:
            if inText {
                cur.Write(t)
            }
        }
    }
    return out, nil
}
