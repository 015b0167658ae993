// internal/utils/validator/document.go
package validator

import (
    "crypto/sha256"
    "encoding/hex"
    "fmt"
    "mime"
    "path/filepath"
    "strings"

    "github.com/gabriel-vasile/mimetype"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
)

// Messages shown to the user for local validation failures.
const (
    MsgInvalidFileType = "Please select a valid file type (PDF, DOCX, or TXT)"
    MsgFileTooLarge    = "File size must be less than 10MB"
)

// DocumentValidator guards uploads and text input before anything reaches the network.
type DocumentValidator struct {
    logger logger.Logger
    config *ValidatorConfig
}

// ValidatorConfig 验证器配置
type ValidatorConfig struct {
    MaxFileSize  int64               // bytes
    AllowedTypes map[string][]string // extension -> accepted MIME types
}

// FileInfo describes a file read from disk for upload.
type FileInfo struct {
    Filename  string `json:"filename"`
    Size      int64  `json:"size"`
    MimeType  string `json:"mimeType"`
    Extension string `json:"extension"`
    Hash      string `json:"hash"`
}

// DefaultConfig accepts PDF, DOCX and plain text up to 10 MiB.
func DefaultConfig() *ValidatorConfig {
    return &ValidatorConfig{
        MaxFileSize: models.MaxUploadSize,
        AllowedTypes: map[string][]string{
            ".pdf":  {models.MimePDF},
            ".docx": {models.MimeDOCX},
            ".txt":  {models.MimeTXT},
        },
    }
}

func NewDocumentValidator(log logger.Logger, config *ValidatorConfig) *DocumentValidator {
    if config == nil {
        config = DefaultConfig()
    }
    if log == nil {
        log = logger.NewNop()
    }

    return &DocumentValidator{
        logger: log,
        config: config,
    }
}

// ValidateUpload checks the mime type first, then the size. It returns a
// *models.ValidationError on failure.
func (v *DocumentValidator) ValidateUpload(req *models.UploadRequest) error {
    if req == nil || !v.allowedMime(req.MimeType) {
        mimeType := ""
        if req != nil {
            mimeType = req.MimeType
        }
        v.logger.Warn("Upload rejected: mime type",
            logger.String("mimeType", mimeType),
        )
        return &models.ValidationError{
            Code:    models.CodeInvalidFileType,
            Field:   "mimeType",
            Message: MsgInvalidFileType,
            Level:   models.LevelError,
        }
    }

    if req.Size > v.config.MaxFileSize {
        v.logger.Warn("Upload rejected: size",
            logger.String("filename", req.Filename),
            logger.Int64("size", req.Size),
            logger.Int64("maxSize", v.config.MaxFileSize),
        )
        return &models.ValidationError{
            Code:    models.CodeFileTooLarge,
            Field:   "size",
            Message: MsgFileTooLarge,
            Level:   models.LevelError,
        }
    }

    return nil
}

// ValidateText trims text and fails with message when nothing is left.
func (v *DocumentValidator) ValidateText(text, message string) (string, error) {
    trimmed := strings.TrimSpace(text)
    if trimmed == "" {
        return "", &models.ValidationError{
            Code:    models.CodeEmptyText,
            Field:   "text",
            Message: message,
            Level:   models.LevelWarning,
        }
    }
    return trimmed, nil
}

func (v *DocumentValidator) allowedMime(mimeType string) bool {
    mt := normalizeMime(mimeType)
    for _, mimes := range v.config.AllowedTypes {
        for _, m := range mimes {
            if m == mt {
                return true
            }
        }
    }
    return false
}

// Inspect builds FileInfo for data read from filename. The mime type comes
// from the content; when detection is inconclusive the extension decides,
// which is how a browser labels a picked file.
func (v *DocumentValidator) Inspect(filename string, data []byte) FileInfo {
    ext := strings.ToLower(filepath.Ext(filename))
    hash := sha256.Sum256(data)

    info := FileInfo{
        Filename:  filepath.Base(filename),
        Size:      int64(len(data)),
        Extension: ext,
        Hash:      hex.EncodeToString(hash[:]),
        MimeType:  DetectMimeType(data),
    }

    if !v.allowedMime(info.MimeType) {
        if mimes, ok := v.config.AllowedTypes[ext]; ok && len(mimes) > 0 && byExtensionOK(info.MimeType, mimes[0]) {
            info.MimeType = mimes[0]
        }
    }

    v.logger.Debug("Inspected file",
        logger.String("filename", info.Filename),
        logger.String("mimeType", info.MimeType),
        logger.Int64("size", info.Size),
        logger.String("hash", info.Hash),
    )
    return info
}

// NewUploadRequest reads an in-memory file into an UploadRequest using Inspect.
func (v *DocumentValidator) NewUploadRequest(filename string, data []byte) *models.UploadRequest {
    info := v.Inspect(filename, data)
    return &models.UploadRequest{
        Filename: info.Filename,
        MimeType: info.MimeType,
        Size:     info.Size,
        Data:     data,
    }
}

// DetectMimeType sniffs data and returns the bare media type.
func DetectMimeType(data []byte) string {
    return normalizeMime(mimetype.Detect(data).String())
}

// byExtensionOK lets the extension refine a generic detection result: a zip
// archive may become DOCX, and octet-stream may become any listed type. Any
// other detected type, text/plain included, is kept as sniffed.
func byExtensionOK(detected, want string) bool {
    switch detected {
    case "application/zip":
        return want == models.MimeDOCX
    case "application/octet-stream":
        return true
    }
    return detected == want
}

func normalizeMime(value string) string {
    mt, _, err := mime.ParseMediaType(value)
    if err != nil {
        return strings.ToLower(strings.TrimSpace(value))
    }
    return mt
}

// String is used in log lines.
func (f FileInfo) String() string {
    return fmt.Sprintf("%s (%s, %d bytes)", f.Filename, f.MimeType, f.Size)
}
