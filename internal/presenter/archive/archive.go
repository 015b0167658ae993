// Package archive stores every rendered result as a JSON object.
package archive

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "path"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/xprabhudayal/genai/internal/models"
    "github.com/xprabhudayal/genai/pkg/logger"
    "github.com/xprabhudayal/genai/pkg/storage"
)

const defaultTimeout = 10 * time.Second

// Record is the stored form of one result.
type Record struct {
    ID         string            `json:"id"`
    Kind       models.ResultKind `json:"kind"`
    Result     json.RawMessage   `json:"result"`
    ArchivedAt time.Time         `json:"archivedAt"`
}

// Presenter writes results to storage. Archive failures are logged and never
// reach the user surface.
type Presenter struct {
    store   storage.Storage
    prefix  string
    timeout time.Duration
    logger  logger.Logger

    mu      sync.Mutex
    lastKey string
}

func New(store storage.Storage, prefix string, log logger.Logger) *Presenter {
    if log == nil {
        log = logger.NewNop()
    }
    return &Presenter{
        store:   store,
        prefix:  prefix,
        timeout: defaultTimeout,
        logger:  log.Named("archive"),
    }
}

func (p *Presenter) SetProcessing(on bool) {
    p.logger.Debug("Processing changed", logger.Bool("processing", on))
}

func (p *Presenter) RenderNotification(n models.Notification) {
    p.logger.Debug("Notification",
        logger.String("level", string(n.Level)),
        logger.String("message", n.Message),
    )
}

func (p *Presenter) RenderResult(result models.Result) {
    ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
    defer cancel()

    key, err := p.Archive(ctx, result)
    if err != nil {
        p.logger.Error("Failed to archive result",
            logger.String("kind", string(result.Kind())),
            logger.Error(err),
        )
        return
    }
    p.logger.Info("Result archived", logger.String("key", key))
}

// Archive stores result under <prefix>/<kind>/<id>.json and returns the key.
func (p *Presenter) Archive(ctx context.Context, result models.Result) (string, error) {
    data, err := json.Marshal(result)
    if err != nil {
        return "", fmt.Errorf("failed to marshal result: %w", err)
    }

    rec := Record{
        ID:         uuid.New().String(),
        Kind:       result.Kind(),
        Result:     data,
        ArchivedAt: time.Now().UTC(),
    }
    body, err := json.Marshal(rec)
    if err != nil {
        return "", fmt.Errorf("failed to marshal record: %w", err)
    }

    key, err := p.store.Store(ctx, bytes.NewReader(body), Key(p.prefix, rec.Kind, rec.ID))
    if err != nil {
        return "", err
    }

    p.mu.Lock()
    p.lastKey = key
    p.mu.Unlock()
    return key, nil
}

// LastKey returns the key of the most recent successful archive, if any.
func (p *Presenter) LastKey() string {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.lastKey
}

func Key(prefix string, kind models.ResultKind, id string) string {
    return path.Join(prefix, string(kind), id+".json")
}

// Load reads one record back.
func Load(ctx context.Context, store storage.Storage, key string) (*Record, error) {
    rc, err := store.Get(ctx, key)
    if err != nil {
        return nil, err
    }
    defer rc.Close()

    var rec Record
    if err := json.NewDecoder(rc).Decode(&rec); err != nil {
        return nil, fmt.Errorf("failed to decode archive record %s: %w", key, err)
    }
    return &rec, nil
}
