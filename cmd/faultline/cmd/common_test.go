package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/faultline/internal/report"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// captureStdout runs fn with stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), runErr
}

// writeReportFixture drops a parseable crash report file into dir.
func writeReportFixture(t *testing.T, dir, name string) {
	t.Helper()

	var b strings.Builder
	b.WriteString(report.HeaderOS + "\n")
	b.WriteString(" Name:    Linux\n\n")
	b.WriteString(report.HeaderReason + "\n")
	b.WriteString(" Signal:  Segmentation fault (11)\n")
	b.WriteString(" Message: test fault\n\n")
	b.WriteString(report.HeaderStack + "\n")
	b.WriteString(" [00] main.run [0x4a1b2c] (main.go:10)\n\n")

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o600))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f47ac10", shortID("0f47ac10-58cc-4372-a567-0e02b2c3d479"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "", shortID(""))
}

func TestResolveReport(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	reportsDir := filepath.Join(base, "reports")
	require.NoError(t, os.MkdirAll(reportsDir, 0o755))

	st, err := store.Open(filepath.Join(base, "faultline.db"))
	require.NoError(t, err)
	defer st.Close()

	writeReportFixture(t, reportsDir, "crash-2026-08-23T10-00-00.log")
	writeReportFixture(t, reportsDir, "crash-2026-08-23T11-00-00.log")
	_, _, err = st.Sync(ctx, reportsDir)
	require.NoError(t, err)

	reports, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	t.Run("exact ID", func(t *testing.T) {
		rep, err := resolveReport(ctx, st, reports[0].ID)
		require.NoError(t, err)
		assert.Equal(t, reports[0].ID, rep.ID)
	})

	t.Run("unique prefix", func(t *testing.T) {
		ref := reports[1].ID[:len(reports[1].ID)-1]
		rep, err := resolveReport(ctx, st, ref)
		require.NoError(t, err)
		assert.Equal(t, reports[1].ID, rep.ID)
	})

	t.Run("file name", func(t *testing.T) {
		rep, err := resolveReport(ctx, st, "crash-2026-08-23T10-00-00.log")
		require.NoError(t, err)
		assert.Equal(t, "crash-2026-08-23T10-00-00.log", rep.FileName)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := resolveReport(ctx, st, "zzz")
		assert.ErrorContains(t, err, "no report matches")
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := resolveReport(ctx, st, "")
		assert.ErrorContains(t, err, "ambiguous")
	})
}
