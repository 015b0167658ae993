package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xprabhudayal/genai/internal/models"
	"github.com/xprabhudayal/genai/pkg/logger"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Store(ctx context.Context, r io.Reader, key string) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return key, nil
}

func (m *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error) {
	return 0, nil
}

func TestArchiveAndLoad(t *testing.T) {
	store := newMemStorage()
	p := New(store, "legaldoc", logger.NewTestLogger())

	p.RenderResult(&models.DocumentResult{Filename: "a.pdf", OriginalText: "X", Summary: "Y", SimplifiedText: "Z"})

	key := p.LastKey()
	require.NotEmpty(t, key)
	assert.True(t, strings.HasPrefix(key, "legaldoc/document/"))
	assert.True(t, strings.HasSuffix(key, ".json"))

	rec, err := Load(context.Background(), store, key)
	require.NoError(t, err)
	assert.Equal(t, models.KindDocument, rec.Kind)
	assert.Equal(t, key, Key("legaldoc", rec.Kind, rec.ID))

	var doc models.DocumentResult
	require.NoError(t, json.Unmarshal(rec.Result, &doc))
	assert.Equal(t, models.DocumentResult{Filename: "a.pdf", OriginalText: "X", Summary: "Y", SimplifiedText: "Z"}, doc)
}

func TestArchiveKeysAreUnique(t *testing.T) {
	store := newMemStorage()
	p := New(store, "results", nil)

	p.RenderResult(models.TermSet{"whereas"})
	first := p.LastKey()
	p.RenderResult(models.TermSet{"whereas"})
	assert.NotEqual(t, first, p.LastKey())
	assert.Len(t, store.objects, 2)
}

func TestArchiveFailureIsLoggedOnly(t *testing.T) {
	store := newMemStorage()
	store.fail = errors.New("bucket gone")
	log := logger.NewTestLogger()
	p := New(store, "legaldoc", log)

	p.SetProcessing(true)
	p.RenderNotification(models.Notification{Level: models.LevelError, Message: "x"})
	p.RenderResult(&models.Summary{Text: "s"})

	assert.Empty(t, p.LastKey())
	assert.Contains(t, log.Messages("ERROR"), "Failed to archive result")
}
