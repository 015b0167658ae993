// Package session keeps a snapshot of what a single user surface currently
// shows: the phase, the last result and recent notifications.
package session

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/xprabhudayal/genai/internal/models"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("session: no snapshot")

type Snapshot struct {
    Phase         models.Phase          `json:"phase"`
    ResultKind    models.ResultKind     `json:"resultKind,omitempty"`
    Result        json.RawMessage       `json:"result,omitempty"`
    Notifications []models.Notification `json:"notifications"`
    UpdatedAt     time.Time             `json:"updatedAt"`
}

// NewSnapshot returns an idle snapshot with no result.
func NewSnapshot() *Snapshot {
    return &Snapshot{
        Phase:         models.PhaseIdle,
        Notifications: []models.Notification{},
    }
}

// SetResult replaces the stored result.
func (s *Snapshot) SetResult(result models.Result) error {
    data, err := json.Marshal(result)
    if err != nil {
        return fmt.Errorf("failed to marshal %s result: %w", result.Kind(), err)
    }
    s.ResultKind = result.Kind()
    s.Result = data
    return nil
}

// Notify appends n, keeping at most limit notifications (newest last).
func (s *Snapshot) Notify(n models.Notification, limit int) {
    s.Notifications = append(s.Notifications, n)
    if limit > 0 && len(s.Notifications) > limit {
        s.Notifications = append([]models.Notification{}, s.Notifications[len(s.Notifications)-limit:]...)
    }
}

// DecodeResult rebuilds the typed result, or returns nil if none is stored.
func (s *Snapshot) DecodeResult() (models.Result, error) {
    if s.ResultKind == "" {
        return nil, nil
    }
    var target models.Result
    switch s.ResultKind {
    case models.KindDocument:
        target = &models.DocumentResult{}
    case models.KindSimplified:
        target = &models.SimplifiedText{}
    case models.KindSummary:
        target = &models.Summary{}
    case models.KindExplanation:
        target = &models.TermExplanation{}
    case models.KindTerms:
        var set models.TermSet
        if err := json.Unmarshal(s.Result, &set); err != nil {
            return nil, fmt.Errorf("failed to unmarshal terms: %w", err)
        }
        return set, nil
    default:
        return nil, fmt.Errorf("unknown result kind %q", s.ResultKind)
    }
    if err := json.Unmarshal(s.Result, target); err != nil {
        return nil, fmt.Errorf("failed to unmarshal %s result: %w", s.ResultKind, err)
    }
    return target, nil
}

// Store persists one snapshot.
type Store interface {
    Load(ctx context.Context) (*Snapshot, error)
    Save(ctx context.Context, snap *Snapshot) error
    Clear(ctx context.Context) error
    Close() error
}
