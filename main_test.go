package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/chartscope/internal/config"
	"git.lost.host/meutraa/chartscope/internal/timing"
)

func songDir(t *testing.T) string {
	data, err := os.ReadFile(filepath.Join("internal", "parser", "testdata", "simple.sm"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "simple.sm"), data, 0o644))
	return dir
}

func TestInfo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, info(&out, nil, songDir(t)))

	s := out.String()
	assert.Contains(t, s, "Test Song - Tester")
	assert.Contains(t, s, "Audio: none")
	assert.Contains(t, s, "dance-double")
	assert.Contains(t, s, "60-120 bpm")
	assert.Contains(t, s, "stop 1.000s @ beat 2.000 (1.500s)")
}

func TestQuery(t *testing.T) {
	dir := songDir(t)
	var tests = []struct {
		mode            timing.SpacingMode
		row, beat, time string
		expected        string
	}{
		{timing.ConstantRow, "150", "", "", "governing: stop 1.000s @ beat 2.000"},
		{timing.ConstantRow, "", "4", "", "governing: tempo 60.000 bpm @ beat 4.000"},
		{timing.ConstantTime, "", "", "1.4", "governing: scroll x1.00 @ beat 0.000"},
		{timing.ConstantTime, "", "", "3.6", "governing: tempo 60.000 bpm @ beat 4.000"},
		{timing.Variable, "", "", "-3", "governing: tempo 120.000 bpm @ beat 0.000"},
	}
	for _, test := range tests {
		var out bytes.Buffer
		require.NoError(t, query(&out, nil, dir, test.mode, test.row, test.beat, test.time))
		assert.Contains(t, out.String(), test.expected)
	}

	var out bytes.Buffer
	assert.Error(t, query(&out, nil, dir, timing.ConstantRow, "1", "", "2"))
	assert.Error(t, query(&out, nil, dir, timing.ConstantRow, "", "", ""))
	assert.Error(t, query(&out, nil, dir, timing.ConstantRow, "soon", "", ""))
}

func TestIndexAndList(t *testing.T) {
	*config.Database = filepath.Join(t.TempDir(), "charts.db")
	dir := songDir(t)

	var out bytes.Buffer
	require.NoError(t, index(&out, nil, []string{dir, t.TempDir()}))
	assert.Contains(t, out.String(), "indexed Test Song (2 charts)")
	assert.Contains(t, out.String(), "skipped")

	out.Reset()
	require.NoError(t, list(&out, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Easy")
	assert.Contains(t, lines[1], "60-120")
	assert.Contains(t, lines[2], "Hard")

	assert.Error(t, index(&out, nil, []string{t.TempDir()}))
}
