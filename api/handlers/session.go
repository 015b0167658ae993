package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/xprabhudayal/genai/internal/service/orchestrator"
    "github.com/xprabhudayal/genai/pkg/logger"
)

type SessionHandler struct {
    orch   *orchestrator.Orchestrator
    view   SessionView
    logger logger.Logger
}

func NewSessionHandler(orch *orchestrator.Orchestrator, view SessionView, log logger.Logger) *SessionHandler {
    return &SessionHandler{orch: orch, view: view, logger: log}
}

// Get returns the recorded surface state. The phase comes from the
// orchestrator itself.
func (h *SessionHandler) Get(c *gin.Context) {
    snap, err := h.view.Snapshot(c.Request.Context())
    if err != nil {
        h.logger.Error("Failed to load session", logger.Error(err))
        c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load session"})
        return
    }
    snap.Phase = h.orch.Phase()
    c.JSON(http.StatusOK, snap)
}

// Health reports upstream reachability alongside the local phase.
func (h *SessionHandler) Health(c *gin.Context) {
    status, err := h.orch.Health(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{
            "status":  "unhealthy",
            "message": "Document service unreachable",
            "phase":   h.orch.Phase(),
        })
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "status":  status.Status,
        "message": status.Message,
        "phase":   h.orch.Phase(),
    })
}
