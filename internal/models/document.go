package models

import (
    "time"
)

// Accepted upload mime types.
const (
    MimePDF  = "application/pdf"
    MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
    MimeTXT  = "text/plain"
)

// MaxUploadSize is the largest document the service accepts (10 MiB).
const MaxUploadSize int64 = 10 * 1024 * 1024

// FileType groups mime types for local text extraction.
type FileType string

const (
    PDF  FileType = "pdf"
    Word FileType = "word"
    Text FileType = "text"
)

// UploadRequest is a single document picked by the user.
type UploadRequest struct {
    Filename string `json:"filename"`
    MimeType string `json:"mimeType"`
    Size     int64  `json:"size"`
    Data     []byte `json:"-"`
}

// DocumentMetadata describes a locally inspected document.
type DocumentMetadata struct {
    Title     string    `json:"title,omitempty"`
    Author    string    `json:"author,omitempty"`
    FileType  FileType  `json:"fileType"`
    FileSize  int64     `json:"fileSize"`
    MimeType  string    `json:"mimeType"`
    Pages     int       `json:"pages"`
    CreatedAt time.Time `json:"createdAt"`
    Hash      string    `json:"hash"`
}

// DocumentChunk is one page or paragraph block of extracted text.
type DocumentChunk struct {
    Content  string                 `json:"content"`
    Metadata map[string]interface{} `json:"metadata"`
}
