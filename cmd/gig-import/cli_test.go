package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate_AllRowsValid(t *testing.T) {
	path := writeFile(t, "gigs.csv", "title,start,timezone,status\nSpring Gala,2026-06-15 20:00,America/New_York,Booked\n")

	out, err := runCLI(t, "validate", path, "--type", "gigs")
	require.NoError(t, err)

	var got validateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Summary.Total)
	assert.Equal(t, 1, got.Summary.Valid)
	assert.Empty(t, got.Invalid)
}

func TestValidate_ReportsInvalidRows(t *testing.T) {
	path := writeFile(t, "assets.csv", "category,manufacturer_model,acquisition_date\nAudio,SM58,2024-03-15\n,SM57,03/15/2024\n")

	out, err := runCLI(t, "validate", path, "--type", "assets")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))

	var got validateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Invalid, 1)
	assert.Equal(t, 3, got.Invalid[0].Row)
	assert.Len(t, got.Invalid[0].Errors, 2)
}

func TestValidate_ExitCodes(t *testing.T) {
	good := writeFile(t, "gigs.csv", "title,start,status\nA,2026-06-15,Booked\n")
	broken := writeFile(t, "broken.csv", "title,start\n\"Open,2026-06-15\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown type", []string{"validate", good, "--type", "venues"}, exitUsage},
		{"bad timezone", []string{"validate", good, "--type", "gigs", "--timezone", "Mars/Olympus"}, exitUsage},
		{"missing file", []string{"validate", filepath.Join(t.TempDir(), "nope.csv"), "--type", "gigs"}, exitUsage},
		{"parse error", []string{"validate", broken, "--type", "gigs"}, exitValidation},
		{"missing type flag", []string{"validate", good}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}

func TestTemplate(t *testing.T) {
	out, err := runCLI(t, "template", "gigs")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "title,start,end,timezone,status"))

	path := filepath.Join(t.TempDir(), "assets.csv")
	_, err = runCLI(t, "template", "assets", "--output", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "category,"))

	_, err = runCLI(t, "template", "venues")
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Nil(t, withCode(exitDB, nil))
	assert.Equal(t, exitDB, exitCode(withCode(exitDB, assert.AnError)))
	assert.Equal(t, 1, exitCode(assert.AnError))
}
