package document

import (
    "context"
    "io"

    "github.com/xprabhudayal/genai/internal/models"
)

// Processor extracts text from one family of document formats.
type Processor interface {
    // CanProcess reports whether mimeType is handled by this processor.
    CanProcess(mimeType string) bool

    // Process returns the document's text as ordered chunks.
    Process(ctx context.Context, reader io.Reader) ([]models.DocumentChunk, error)

    ExtractMetadata(ctx context.Context, reader io.Reader) (models.DocumentMetadata, error)

    Close() error
}
