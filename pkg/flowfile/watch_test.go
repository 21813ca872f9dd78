package flowfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

type reloads struct {
	mu   sync.Mutex
	docs []*Document
	errs []error
}

func (r *reloads) record(doc *Document, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	r.errs = append(r.errs, err)
}

func (r *reloads) last() (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.docs)
	if n == 0 {
		return nil, nil
	}
	return r.docs[n-1], r.errs[n-1]
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, WriteFile(path, NewDocument([]flow.Node{{ID: "a"}}, nil)))

	core, logs := observer.New(zapcore.InfoLevel)
	var got reloads
	w, err := NewWatcher(path, got.record,
		WatchLogger(zap.New(core)),
		WatchDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	require.NoError(t, WriteFile(path, NewDocument([]flow.Node{{ID: "a"}, {ID: "b"}}, nil)))
	require.Eventually(t, func() bool {
		doc, err := got.last()
		return err == nil && doc != nil && len(doc.Nodes) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotZero(t, logs.FilterMessage("document reloaded").Len())

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	require.Eventually(t, func() bool {
		_, err := got.last()
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "graph.json"), func(*Document, error) {})
	assert.Error(t, err)
}
