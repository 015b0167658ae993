package pdf

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "fmt"
    "io"
    "sort"
    "strings"
    "time"

    "github.com/ledongthuc/pdf"
    "golang.org/x/sync/errgroup"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
)

const defaultMaxWorkers = 4

type Processor struct {
    logger     logger.Logger
    maxWorkers int
}

func NewProcessor(log logger.Logger) *Processor {
    return &Processor{
        logger:     log.Named("pdf"),
        maxWorkers: defaultMaxWorkers,
    }
}

func (p *Processor) CanProcess(mimeType string) bool {
    return mimeType == models.MimePDF
}

// Process reads pages concurrently and returns one chunk per non-empty page,
// in page order.
func (p *Processor) Process(ctx context.Context, file io.Reader) ([]models.DocumentChunk, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return nil, fmt.Errorf("failed to read pdf: %w", err)
    }

    reader := bytes.NewReader(content)
    pdfReader, err := pdf.NewReader(reader, reader.Size())
    if err != nil {
        return nil, fmt.Errorf("failed to open pdf: %w", err)
    }

    numPages := pdfReader.NumPage()
    hash := sha256.Sum256(content)
    hashStr := hex.EncodeToString(hash[:])

    g, ctx := errgroup.WithContext(ctx)
    g.SetLimit(p.maxWorkers)
    chunkChan := make(chan models.DocumentChunk, numPages)

    for i := 1; i <= numPages; i++ {
        pageNum := i
        g.Go(func() error {
            if err := ctx.Err(); err != nil {
                return err
            }

            page := pdfReader.Page(pageNum)
            if page.V.IsNull() {
                return nil
            }

            text, err := page.GetPlainText(nil)
            if err != nil {
                return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
            }

            chunkChan <- models.DocumentChunk{
                Content: text,
                Metadata: map[string]interface{}{
                    "page":    pageNum,
                    "hash":    hashStr,
                    "section": fmt.Sprintf("page_%d", pageNum),
                },
            }
            return nil
        })
    }

    err = g.Wait()
    close(chunkChan)
    if err != nil {
        return nil, err
    }

    chunks := make([]models.DocumentChunk, 0, numPages)
    for chunk := range chunkChan {
        chunks = append(chunks, chunk)
    }
    sort.Slice(chunks, func(i, j int) bool {
        return chunks[i].Metadata["page"].(int) < chunks[j].Metadata["page"].(int)
    })

    p.logger.Debug("PDF processed",
        logger.Int("pages", numPages),
        logger.Int("chunks", len(chunks)),
    )
    return p.postProcessChunks(chunks), nil
}

func (p *Processor) ExtractMetadata(ctx context.Context, file io.Reader) (models.DocumentMetadata, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return models.DocumentMetadata{}, err
    }

    reader := bytes.NewReader(content)
    pdfReader, err := pdf.NewReader(reader, reader.Size())
    if err != nil {
        return models.DocumentMetadata{}, fmt.Errorf("failed to open pdf: %w", err)
    }

    hash := sha256.Sum256(content)
    metadata := models.DocumentMetadata{
        FileType:  models.PDF,
        FileSize:  int64(len(content)),
        MimeType:  models.MimePDF,
        Pages:     pdfReader.NumPage(),
        CreatedAt: time.Now(),
        Hash:      hex.EncodeToString(hash[:]),
    }

    trailer := pdfReader.Trailer()
    if !trailer.IsNull() {
        info := trailer.Key("Info")
        if !info.IsNull() {
            if title := info.Key("Title"); !title.IsNull() {
                metadata.Title = title.Text()
            }
            if author := info.Key("Author"); !author.IsNull() {
                metadata.Author = author.Text()
            }
        }
    }

    return metadata, nil
}

// postProcessChunks drops pages that carry no text.
func (p *Processor) postProcessChunks(chunks []models.DocumentChunk) []models.DocumentChunk {
    processed := make([]models.DocumentChunk, 0, len(chunks))
    for _, chunk := range chunks {
        text := cleanText(chunk.Content)
        if text == "" {
            continue
        }
        processed = append(processed, models.DocumentChunk{Content: text, Metadata: chunk.Metadata})
    }
    return processed
}

// cleanText collapses runs of whitespace within each line and drops blank lines.
func cleanText(text string) string {
    lines := strings.Split(text, "\n")
    out := lines[:0]
    for _, line := range lines {
        if line = strings.Join(strings.Fields(line), " "); line != "" {
            out = append(out, line)
        }
    }
    return strings.Join(out, "\n")
}

func (p *Processor) Close() error {
    return nil
}
