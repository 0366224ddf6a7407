package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"Composite/internal/calc/composite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCommand(t *testing.T) {
	out, err := run(t, "predict", "--fiber", "Glass", "--matrix", "PEEK", "--vf", "0.6")
	require.NoError(t, err)

	var resp composite.PredictResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 480.0, resp.Predictions.TensileStrengthMPa)
	assert.Equal(t, "UD 0°", resp.Input.Layup)
}

func TestPredictCommand_OutOfRange(t *testing.T) {
	_, err := run(t, "predict", "--vf", "0.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0.3 and 0.7")
}

func TestOptionsCommand(t *testing.T) {
	out, err := run(t, "options")
	require.NoError(t, err)

	var resp composite.OptionsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Options.FiberTypes, 5)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"fiber", "matrix", "vf"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Basalt", "Epoxy", "0.6"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out.xlsx")
	msg, err := run(t, "batch", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, msg, "1 rows written")

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestReportCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "r.pdf")
	_, err := run(t, "report", "--fiber", "Carbon", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "2.0")
}
