package text

import (
    "bufio"
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/hex"
    "fmt"
    "io"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
)

// Processor splits plain text into blank-line separated blocks.
type Processor struct {
    logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
    return &Processor{logger: log.Named("text")}
}

func (p *Processor) CanProcess(mimeType string) bool {
    return mimeType == models.MimeTXT
}

func (p *Processor) Process(ctx context.Context, file io.Reader) ([]models.DocumentChunk, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return nil, fmt.Errorf("failed to read text: %w", err)
    }
    if !utf8.Valid(content) {
        return nil, fmt.Errorf("text file is not valid UTF-8")
    }
    content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

    var (
        chunks []models.DocumentChunk
        block  []string
    )
    flush := func() {
        if len(block) == 0 {
            return
        }
        n := len(chunks) + 1
        chunks = append(chunks, models.DocumentChunk{
            Content: strings.Join(block, "\n"),
            Metadata: map[string]interface{}{
                "block":   n,
                "section": fmt.Sprintf("block_%d", n),
            },
        })
        block = block[:0]
    }

    scanner := bufio.NewScanner(bytes.NewReader(content))
    scanner.Buffer(make([]byte, 0, 64*1024), int(models.MaxUploadSize))
    for scanner.Scan() {
        if err := ctx.Err(); err != nil {
            return nil, err
        }
        line := strings.TrimRight(scanner.Text(), " \t\r")
        if strings.TrimSpace(line) == "" {
            flush()
            continue
        }
        block = append(block, line)
    }
    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("failed to scan text: %w", err)
    }
    flush()

    return chunks, nil
}

func (p *Processor) ExtractMetadata(ctx context.Context, file io.Reader) (models.DocumentMetadata, error) {
    content, err := io.ReadAll(file)
    if err != nil {
        return models.DocumentMetadata{}, err
    }
    hash := sha256.Sum256(content)
    return models.DocumentMetadata{
        FileType:  models.Text,
        FileSize:  int64(len(content)),
        MimeType:  models.MimeTXT,
        CreatedAt: time.Now(),
        Hash:      hex.EncodeToString(hash[:]),
    }, nil
}

func (p *Processor) Close() error {
    return nil
}
