package handlers

import (
    "fmt"
    "io"
    "net/http"
    "path/filepath"

    "github.com/gin-gonic/gin"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/internal/service/orchestrator"
    "github.com/xprabhudayal/genai/internal/utils/validator"
    "github.com/xprabhudayal/genai/pkg/logger"
)

type DocumentHandler struct {
    orch      *orchestrator.Orchestrator
    validator *validator.DocumentValidator
    logger    logger.Logger
}

// UploadResponse matches the service's upload payload.
type UploadResponse struct {
    Success        bool   `json:"success"`
    Filename       string `json:"filename"`
    OriginalText   string `json:"original_text"`
    Summary        string `json:"summary"`
    SimplifiedText string `json:"simplified_text"`
}

func NewDocumentHandler(orch *orchestrator.Orchestrator, v *validator.DocumentValidator, log logger.Logger) *DocumentHandler {
    return &DocumentHandler{orch: orch, validator: v, logger: log}
}

// Upload accepts one multipart "file" field. The declared part type is
// trusted; sniffing only fills in a missing or generic one.
func (h *DocumentHandler) Upload(c *gin.Context) {
    file, header, err := c.Request.FormFile("file")
    if err != nil {
        c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file provided", Code: "NO_FILE"})
        return
    }
    defer file.Close()

    req := &models.UploadRequest{
        Filename: filepath.Base(header.Filename),
        MimeType: header.Header.Get("Content-Type"),
        Size:     header.Size,
    }

    // Oversize files are rejected by validation without being read.
    if req.Size <= models.MaxUploadSize {
        data, err := io.ReadAll(io.LimitReader(file, models.MaxUploadSize+1))
        if err != nil {
            respondError(c, h.logger, fmt.Errorf("failed to read upload: %w", err), orchestrator.MsgUploadFailed, orchestrator.MsgUploadTransport)
            return
        }
        req.Data = data
        if req.MimeType == "" || req.MimeType == "application/octet-stream" {
            req.MimeType = h.validator.Inspect(req.Filename, data).MimeType
        }
    }

    doc, err := h.orch.SubmitDocument(c.Request.Context(), req)
    if err != nil {
        respondError(c, h.logger, err, orchestrator.MsgUploadFailed, orchestrator.MsgUploadTransport)
        return
    }

    c.JSON(http.StatusOK, UploadResponse{
        Success:        true,
        Filename:       doc.Filename,
        OriginalText:   doc.OriginalText,
        Summary:        doc.Summary,
        SimplifiedText: doc.SimplifiedText,
    })
}
