package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, dbURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--database", dbURL, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	t.Setenv("LABEL_PRINTER_COMMAND", "true")
	dir := t.TempDir()
	dbURL := "sqlite://" + filepath.Join(dir, "trove.db")

	out, err := run(t, dbURL, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 2 migrations (sqlite)")

	out, err = run(t, dbURL, "", "containers")
	require.NoError(t, err)
	assert.Contains(t, out, "Tapes & Adhesives")

	out, err = run(t, dbURL, "", "add", "3", "boxes", "of", "nails", "--new-container", "Loft box", "--location", "attic")
	require.NoError(t, err)
	assert.Contains(t, out, "container: Loft box")
	assert.Contains(t, out, "3 x boxes of nails")

	out, err = run(t, dbURL, "2 tape\nglue\n", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "2 x tape")
	assert.Contains(t, out, "1 x glue")

	out, err = run(t, dbURL, "", "items")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Loft box", "containerized items first")
	assert.Contains(t, lines[1], "attic")

	xlsx := filepath.Join(dir, "out.xlsx")
	out, err = run(t, dbURL, "", "export", "-o", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 3 items")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestCLI_AddRunsSubscribersBeforeExit(t *testing.T) {
	dir := t.TempDir()
	dbURL := "sqlite://" + filepath.Join(dir, "trove.db")
	job := filepath.Join(dir, "label.epl")
	mr := miniredis.RunT(t)
	t.Setenv("LABEL_PRINTER_COMMAND", "tee "+job)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())

	out, err := run(t, dbURL, "", "containers")
	require.NoError(t, err)
	assert.NotContains(t, out, "Shed crate")

	_, err = run(t, dbURL, "", "add", "2", "hammers", "--new-container", "Shed crate")
	require.NoError(t, err)

	printed, err := os.ReadFile(job)
	require.NoError(t, err, "label must be printed without --print")
	assert.Contains(t, string(printed), "2 x hammers")
	assert.Contains(t, string(printed), "Shed crate")

	out, err = run(t, dbURL, "", "containers")
	require.NoError(t, err)
	assert.Contains(t, out, "Shed crate", "container cache must be invalidated")
}

func TestCLI_AddRejectsBlankText(t *testing.T) {
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "trove.db")
	_, err := run(t, dbURL, "  \n", "add")
	assert.Error(t, err)
}

func TestReadText(t *testing.T) {
	got, err := readText(strings.NewReader("ignored"), []string{"2", "hammers"})
	require.NoError(t, err)
	assert.Equal(t, "2 hammers", got)

	got, err = readText(strings.NewReader("from\nstdin"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from\nstdin", got)
}

func TestExport_BadPath(t *testing.T) {
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "trove.db")
	_, err := run(t, dbURL, "", "export", "-o", filepath.Join(t.TempDir(), "missing", "x.xlsx"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(statErr))
}
