package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/res2desc/res2desc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"-r"}, cfg.Cryan.Args)
	style, err := cfg.Cryan.ParsedStyle()
	require.NoError(t, err)
	assert.Equal(t, res2desc.TwoLine, style)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "res2desc.yaml")
	data := `
descriptor:
  cutoff: 6.5
  species: [Si, O]
  average: false
cryan:
  args: ["-r", "-t", "5"]
  style: three-line
run:
  workers: 4
  layout: table
  timeout: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	want := Default()
	want.Descriptor.Cutoff = 6.5
	want.Descriptor.Species = []string{"Si", "O"}
	want.Descriptor.Average = false
	want.Cryan.Args = []string{"-r", "-t", "5"}
	want.Cryan.Style = "three-line"
	want.Run.Workers = 4
	want.Run.Layout = LayoutTable
	want.Run.Timeout = 90 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, res2desc.ErrConfig))
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":       "descriptor: [",
		"cutoff":       "descriptor:\n  cutoff: -1\n",
		"species":      "descriptor:\n  species: [Si, Si]\n",
		"style":        "cryan:\n  style: four-line\n",
		"command":      "cryan:\n  command: \"\"\n",
		"layout":       "run:\n  layout: sideways\n",
		"workers":      "run:\n  workers: -2\n",
		"empty output": "run:\n  output: \"\"\n",
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		assert.True(t, errors.Is(err, res2desc.ErrConfig), name)
	}
}

func TestDisabledCryanNeedsNoCommand(t *testing.T) {
	cfg, err := Parse([]byte("cryan:\n  enabled: false\n  command: \"\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Cryan.Enabled)
}

func TestToDescriptor(t *testing.T) {
	cfg := Default()
	species := []string{"Al", "O"}
	d := cfg.Descriptor.ToDescriptor(species)
	require.NoError(t, d.Validate())
	species[0] = "Ga"
	assert.Equal(t, []string{"Al", "O"}, d.Species)
	assert.Equal(t, 15, d.LMax)
	assert.True(t, d.Crossover)
}

func TestOutputStyle(t *testing.T) {
	r := RunConfig{Layout: LayoutAuto}
	s, ok := r.OutputStyle(res2desc.ThreeLine)
	assert.True(t, ok)
	assert.Equal(t, res2desc.ThreeLine, s)

	r.Layout = "two-line"
	s, ok = r.OutputStyle(res2desc.ThreeLine)
	assert.True(t, ok)
	assert.Equal(t, res2desc.TwoLine, s)

	r.Layout = LayoutTable
	_, ok = r.OutputStyle(res2desc.TwoLine)
	assert.False(t, ok)
}
