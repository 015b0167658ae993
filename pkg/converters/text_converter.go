package converters

import (
    "fmt"
    "strings"
    "time"

    "github.com/xprabhudayal/genai/internal/models"
)

// DocumentConverter turns extracted chunks into a single document.
type DocumentConverter interface {
    Convert(chunks []models.DocumentChunk) (*ProcessedDocument, error)
}

type ProcessedDocument struct {
    Content     []ChunkContent `json:"content"`
    Sections    []string       `json:"sections"`
    ProcessedAt time.Time      `json:"processedAt"`
}

type ChunkContent struct {
    Text     string                 `json:"text"`
    Position int                    `json:"position"`
    Type     string                 `json:"type"` // "page", "paragraph" or "block"
    Metadata map[string]interface{} `json:"metadata"`
}

// Text joins every chunk, separated by blank lines.
func (d *ProcessedDocument) Text() string {
    parts := make([]string, 0, len(d.Content))
    for _, c := range d.Content {
        parts = append(parts, c.Text)
    }
    return strings.Join(parts, "\n\n")
}

type TextConverter struct{}

func NewTextConverter() *TextConverter {
    return &TextConverter{}
}

func (c *TextConverter) Convert(chunks []models.DocumentChunk) (*ProcessedDocument, error) {
    if len(chunks) == 0 {
        return nil, fmt.Errorf("no chunks to convert")
    }

    doc := &ProcessedDocument{
        Content:     make([]ChunkContent, 0, len(chunks)),
        Sections:    make([]string, 0, len(chunks)),
        ProcessedAt: time.Now(),
    }

    seen := make(map[string]bool)
    for i, chunk := range chunks {
        content := ChunkContent{
            Text:     chunk.Content,
            Position: i + 1,
            Metadata: chunk.Metadata,
        }
        switch {
        case chunk.Metadata["page"] != nil:
            content.Type = "page"
        case chunk.Metadata["paragraph"] != nil:
            content.Type = "paragraph"
        case chunk.Metadata["block"] != nil:
            content.Type = "block"
        }
        doc.Content = append(doc.Content, content)

        if section, ok := chunk.Metadata["section"].(string); ok && !seen[section] {
            seen[section] = true
            doc.Sections = append(doc.Sections, section)
        }
    }

    return doc, nil
}
