package patch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.tsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readTarget(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestApplier_ApplyWritesOnce(t *testing.T) {
	path := writeTarget(t, "before MARK after\n")
	p := literal("MARK", "DONE")
	p.Target = path

	applier := NewApplier(writer.NewFile(), newTestLogger())
	res, err := applier.Apply(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "before DONE after\n", readTarget(t, path))
	assert.Equal(t, "before MARK after\n", res.Before)
	assert.Equal(t, "before DONE after\n", res.After)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, path, res.Target)
}

func TestApplier_NotFoundLeavesFileUntouched(t *testing.T) {
	original := "no markers here\n"
	path := writeTarget(t, original)
	p := literal("MARK", "DONE", "OLD MARK")
	p.Target = path

	applier := NewApplier(writer.NewFile(), newTestLogger())
	res, err := applier.Apply(context.Background(), p)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMarkerNotFound)
	assert.Equal(t, original, readTarget(t, path))
}

func TestApplier_RerunAfterSuccessFails(t *testing.T) {
	path := writeTarget(t, "interface X {\n  a: string;\n}\n")
	p := literal("  a: string;\n", "  b?: string[];\n")
	p.Mode = ModeInsertAfter
	p.Target = path

	applier := NewApplier(writer.NewFile(), newTestLogger())
	_, err := applier.Apply(context.Background(), p)
	require.NoError(t, err)
	patched := readTarget(t, path)

	_, err = applier.Apply(context.Background(), p)
	assert.ErrorIs(t, err, ErrMarkerNotFound)
	assert.Equal(t, patched, readTarget(t, path))
	assert.Equal(t, "interface X {\n  a: string;\n  b?: string[];\n}\n", patched)
}

func TestApplier_RejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	original := []byte{'M', 'A', 'R', 'K', ' ', 0xe9, '\n'}
	require.NoError(t, os.WriteFile(path, original, 0644))

	p := literal("MARK", "DONE")
	p.Target = path

	_, err := NewApplier(writer.NewFile(), newTestLogger()).Apply(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestApplier_MissingFile(t *testing.T) {
	p := literal("MARK", "DONE")
	p.Target = filepath.Join(t.TempDir(), "absent.ts")

	_, err := NewApplier(writer.NewFile(), newTestLogger()).Apply(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplier_CanceledContext(t *testing.T) {
	path := writeTarget(t, "MARK")
	p := literal("MARK", "DONE")
	p.Target = path

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewApplier(writer.NewFile(), newTestLogger()).Apply(ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "MARK", readTarget(t, path))
}

func TestApplier_DryRunStagesSequentialPatches(t *testing.T) {
	path := writeTarget(t, "A\n")
	first := literal("A", "B")
	first.Target = path
	second := literal("B", "C")
	second.Name = "second"
	second.Target = path

	dry := writer.NewDryRun()
	applier := NewApplier(dry, newTestLogger())

	_, err := applier.Apply(context.Background(), first)
	require.NoError(t, err)
	res, err := applier.Apply(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, "B\n", res.Before)
	staged, ok := dry.Staged(path)
	require.True(t, ok)
	assert.Equal(t, "C\n", string(staged))
	assert.Equal(t, "A\n", readTarget(t, path), "dry run must not touch disk")
}

func TestApplier_Inspect(t *testing.T) {
	path := writeTarget(t, "MARK")
	p := literal("MARK", "DONE")
	p.Target = path

	applier := NewApplier(writer.NewFile(), newTestLogger())
	status, err := applier.Inspect(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	_, err = applier.Apply(context.Background(), p)
	require.NoError(t, err)

	status, err = applier.Inspect(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, status)
}
