package handlers

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/internal/service/orchestrator"
    "github.com/xprabhudayal/genai/internal/terms"
    "github.com/xprabhudayal/genai/internal/utils/validator"
    "github.com/xprabhudayal/genai/pkg/logger"
    "github.com/xprabhudayal/genai/pkg/session"
)

// SessionView exposes what the single user surface currently shows.
type SessionView interface {
    Snapshot(ctx context.Context) (*session.Snapshot, error)
}

type Handlers struct {
    Document *DocumentHandler
    Text     *TextHandler
    Session  *SessionHandler
}

func NewHandlers(
    orch *orchestrator.Orchestrator,
    v *validator.DocumentValidator,
    view SessionView,
    log logger.Logger,
) *Handlers {
    log = log.Named("api")
    return &Handlers{
        Document: NewDocumentHandler(orch, v, log),
        Text:     NewTextHandler(orch, terms.NewExtractor(terms.WithExtendedVocabulary()), log),
        Session:  NewSessionHandler(orch, view, log),
    }
}

// ErrorResponse mirrors the service's failure envelope.
type ErrorResponse struct {
    Success bool   `json:"success"`
    Error   string `json:"error"`
    Code    string `json:"code,omitempty"`
}

// respondError maps orchestrator errors onto HTTP statuses. The body carries
// the same message the user surface was shown.
func respondError(c *gin.Context, log logger.Logger, err error, remoteFallback, transportMessage string) {
    var (
        verr *models.ValidationError
        rerr *models.RemoteError
        terr *models.TransportError
    )

    status := http.StatusInternalServerError
    resp := ErrorResponse{Error: models.UserMessage(err, remoteFallback, transportMessage)}

    switch {
    case errors.As(err, &verr):
        status = http.StatusBadRequest
        resp.Error = verr.Message
        resp.Code = verr.Code
    case errors.Is(err, models.ErrBusy):
        status = http.StatusConflict
        resp.Error = "Another request is still being processed"
        resp.Code = "BUSY"
    case errors.As(err, &rerr), errors.As(err, &terr):
        status = http.StatusBadGateway
    }

    log.Warn("Request failed",
        logger.String("path", c.Request.URL.Path),
        logger.Int("status", status),
        logger.Error(err),
    )
    c.JSON(status, resp)
}
