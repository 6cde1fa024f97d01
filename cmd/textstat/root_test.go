package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/text-analyzer/backend/analyzer"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSampleJSON(t *testing.T) {
	out, err := execute(t, "", "--sample", "--json")
	require.NoError(t, err)

	var report analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Basic.Paragraphs)
	assert.Equal(t, "content", report.SEO.TopKeywords[0].Word)
}

func TestStdin(t *testing.T) {
	out, err := execute(t, "The quick brown fox jumps over the lazy dog.", "--json")
	require.NoError(t, err)

	var report analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 9, report.Basic.Words)
}

func TestFileTerminalOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.html")
	require.NoError(t, os.WriteFile(path, []byte(`<h1>Post</h1><p>Go read <a href="https://go.dev">docs</a>.</p>`), 0o644))

	out, err := execute(t, "", "--html", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Readability Analysis")
	assert.Contains(t, out, "Headings Found")
}

func TestArgumentErrors(t *testing.T) {
	_, err := execute(t, "", "--sample", "file.txt")
	assert.Error(t, err)

	_, err = execute(t, "", "--watch")
	assert.Error(t, err)

	_, err = execute(t, "   \n")
	assert.Error(t, err)

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReanalyzes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("First draft."), 0o644))

	cmd := newRootCmd()
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(&syncBuffer{})
	cmd.SetArgs([]string{"--watch", "--json", path})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), `"basic"`) == 1
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("Second draft, now longer."), 0o644))

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), `"basic"`) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
