package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/internal/service/orchestrator"
    "github.com/xprabhudayal/genai/pkg/logger"
)

type TextHandler struct {
    orch     *orchestrator.Orchestrator
    extended orchestrator.TermExtractor
    logger   logger.Logger
}

type textRequest struct {
    Text string `json:"text"`
}

type extractRequest struct {
    Text     string `json:"text"`
    Extended bool   `json:"extended"`
}

type explainRequest struct {
    Term string `json:"term"`
}

func NewTextHandler(orch *orchestrator.Orchestrator, extended orchestrator.TermExtractor, log logger.Logger) *TextHandler {
    return &TextHandler{orch: orch, extended: extended, logger: log}
}

func (h *TextHandler) Simplify(c *gin.Context) {
    var req textRequest
    if !h.bind(c, &req) {
        return
    }
    out, err := h.orch.SubmitTextForSimplification(c.Request.Context(), req.Text)
    if err != nil {
        respondError(c, h.logger, err, orchestrator.MsgSimplifyFailed, orchestrator.MsgSimplifyTransport)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true, "simplified_text": out.Text})
}

func (h *TextHandler) Summarize(c *gin.Context) {
    var req textRequest
    if !h.bind(c, &req) {
        return
    }
    out, err := h.orch.Summarize(c.Request.Context(), req.Text)
    if err != nil {
        respondError(c, h.logger, err, orchestrator.MsgSummaryFailed, orchestrator.MsgSummaryTransport)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true, "summary": out.Text})
}

// ExtractTerms runs locally and never reaches the service.
func (h *TextHandler) ExtractTerms(c *gin.Context) {
    var req extractRequest
    if !h.bind(c, &req) {
        return
    }

    var (
        found models.TermSet
        err   error
    )
    if req.Extended {
        found, err = h.orch.ExplainTermsWith(h.extended, req.Text)
    } else {
        found, err = h.orch.ExplainTerms(req.Text)
    }
    if err != nil {
        respondError(c, h.logger, err, "", "")
        return
    }

    resp := gin.H{"success": true, "terms": found}
    if len(found) == 0 {
        resp["message"] = orchestrator.MsgNoTerms
    }
    c.JSON(http.StatusOK, resp)
}

func (h *TextHandler) ExplainTerm(c *gin.Context) {
    var req explainRequest
    if !h.bind(c, &req) {
        return
    }
    out, err := h.orch.RequestTermExplanation(c.Request.Context(), req.Term)
    if err != nil {
        respondError(c, h.logger, err, orchestrator.MsgExplainFailed, orchestrator.MsgExplainTransport)
        return
    }
    c.JSON(http.StatusOK, gin.H{"success": true, "term": out.Term, "explanation": out.Explanation})
}

func (h *TextHandler) bind(c *gin.Context, dst interface{}) bool {
    if err := c.ShouldBindJSON(dst); err != nil {
        c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body", Code: "BAD_REQUEST"})
        return false
    }
    return true
}
