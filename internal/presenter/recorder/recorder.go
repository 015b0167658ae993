// Package recorder mirrors what a user surface shows into a session.Store, so
// that a stateless client can poll it.
package recorder

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
    "github.com/xprabhudayal/genai/pkg/session"
)

const (
    defaultLimit   = 20
    defaultTimeout = 3 * time.Second
)

type Presenter struct {
    store   session.Store
    limit   int
    timeout time.Duration
    logger  logger.Logger
    now     func() time.Time

    mu sync.Mutex
}

// New returns a presenter keeping at most limit notifications (20 if limit <= 0).
func New(store session.Store, limit int, log logger.Logger) *Presenter {
    if limit <= 0 {
        limit = defaultLimit
    }
    if log == nil {
        log = logger.NewNop()
    }
    return &Presenter{
        store:   store,
        limit:   limit,
        timeout: defaultTimeout,
        logger:  log.Named("recorder"),
        now:     time.Now,
    }
}

func (p *Presenter) SetProcessing(on bool) {
    p.update("processing", func(s *session.Snapshot) error {
        if on {
            s.Phase = models.PhaseProcessing
        } else {
            s.Phase = models.PhaseIdle
        }
        return nil
    })
}

func (p *Presenter) RenderResult(result models.Result) {
    p.update("result", func(s *session.Snapshot) error {
        return s.SetResult(result)
    })
}

func (p *Presenter) RenderNotification(n models.Notification) {
    p.update("notification", func(s *session.Snapshot) error {
        s.Notify(n, p.limit)
        return nil
    })
}

// Snapshot returns the stored snapshot, or an idle one if nothing is stored.
func (p *Presenter) Snapshot(ctx context.Context) (*session.Snapshot, error) {
    snap, err := p.store.Load(ctx)
    if errors.Is(err, session.ErrNotFound) {
        return session.NewSnapshot(), nil
    }
    return snap, err
}

func (p *Presenter) update(what string, mutate func(*session.Snapshot) error) {
    p.mu.Lock()
    defer p.mu.Unlock()

    ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
    defer cancel()

    snap, err := p.Snapshot(ctx)
    if err != nil {
        p.logger.Error("Failed to load session", logger.String("update", what), logger.Error(err))
        snap = session.NewSnapshot()
    }
    if err := mutate(snap); err != nil {
        p.logger.Error("Failed to update session", logger.String("update", what), logger.Error(err))
        return
    }
    snap.UpdatedAt = p.now().UTC()
    if err := p.store.Save(ctx, snap); err != nil {
        p.logger.Error("Failed to save session", logger.String("update", what), logger.Error(err))
    }
}
