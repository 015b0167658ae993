// Package presenter holds display surfaces for orchestrator outcomes.
package presenter

import (
    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/internal/service/orchestrator"
)

// Multi forwards every call to each presenter in order. Nil entries are skipped.
type Multi []orchestrator.Presenter

func NewMulti(presenters ...orchestrator.Presenter) Multi {
    out := make(Multi, 0, len(presenters))
    for _, p := range presenters {
        if p != nil {
            out = append(out, p)
        }
    }
    return out
}

func (m Multi) SetProcessing(on bool) {
    for _, p := range m {
        p.SetProcessing(on)
    }
}

func (m Multi) RenderResult(result models.Result) {
    for _, p := range m {
        p.RenderResult(result)
    }
}

func (m Multi) RenderNotification(n models.Notification) {
    for _, p := range m {
        p.RenderNotification(n)
    }
}
