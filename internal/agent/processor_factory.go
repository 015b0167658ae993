package agent

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "mime"
    "strings"

    "github.com/xprabhudayal/genai/internal/agent/document"
    "github.com/xprabhudayal/genai/internal/agent/document/docx"
    "github.com/xprabhudayal/genai/internal/agent/document/pdf"
    "github.com/xprabhudayal/genai/internal/agent/document/text"
    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/converters"
    "github.com/xprabhudayal/genai/pkg/logger"
)

// ErrNoText is returned when a document parses but carries no text.
var ErrNoText = errors.New("document contains no extractable text")

// ProcessorFactory picks a local text extractor by mime type.
type ProcessorFactory struct {
    processors map[string]document.Processor
    converter  converters.DocumentConverter
    logger     logger.Logger
}

func NewProcessorFactory(log logger.Logger) *ProcessorFactory {
    if log == nil {
        log = logger.NewNop()
    }
    return &ProcessorFactory{
        processors: map[string]document.Processor{
            models.MimePDF:  pdf.NewProcessor(log),
            models.MimeDOCX: docx.NewProcessor(log),
            models.MimeTXT:  text.NewProcessor(log),
        },
        converter: converters.NewTextConverter(),
        logger:    log.Named("processor"),
    }
}

func (f *ProcessorFactory) GetProcessor(mimeType string) (document.Processor, error) {
    base := normalize(mimeType)
    processor, ok := f.processors[base]
    if !ok {
        f.logger.Warn("No processor found", logger.String("mimeType", mimeType))
        return nil, fmt.Errorf("no processor found for mime type: %s", mimeType)
    }
    return processor, nil
}

// ExtractText returns the document's text with chunks separated by blank lines.
func (f *ProcessorFactory) ExtractText(ctx context.Context, mimeType string, data []byte) (string, error) {
    processor, err := f.GetProcessor(mimeType)
    if err != nil {
        return "", err
    }

    chunks, err := processor.Process(ctx, bytes.NewReader(data))
    if err != nil {
        return "", fmt.Errorf("failed to extract text: %w", err)
    }
    if len(chunks) == 0 {
        return "", ErrNoText
    }

    doc, err := f.converter.Convert(chunks)
    if err != nil {
        return "", fmt.Errorf("failed to convert chunks: %w", err)
    }

    f.logger.Debug("Text extracted",
        logger.String("mimeType", mimeType),
        logger.Int("chunks", len(chunks)),
        logger.Strings("sections", doc.Sections),
    )
    return doc.Text(), nil
}

func (f *ProcessorFactory) Close() error {
    var errs []error
    for _, p := range f.processors {
        if err := p.Close(); err != nil {
            errs = append(errs, err)
        }
    }
    return errors.Join(errs...)
}

func normalize(mimeType string) string {
    if base, _, err := mime.ParseMediaType(mimeType); err == nil {
        return base
    }
    return strings.ToLower(strings.TrimSpace(mimeType))
}
