package descplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/res2desc/res2desc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vecs = []res2desc.Vector{
	{Index: 0, Values: []float64{1, 2, 3, 4}},
	{Index: 1, Values: []float64{3, 2, 1, 0}},
	{Index: 2, Values: []float64{2, 2, 2, 2}},
}

func TestSummary(Te *testing.T) {
	S, err := Summary(vecs)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{2, 2, 2, 2}, S.Mean, 1e-12)
	assert.InDeltaSlice(Te, []float64{1, 0, 1, 2}, S.Std, 1e-12)
	assert.Equal(Te, []float64{1, 2, 1, 0}, S.Min)
	assert.Equal(Te, []float64{3, 2, 3, 4}, S.Max)

	S, err = Summary(vecs[:1])
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0, 0, 0, 0}, S.Std)
}

func TestSummaryErrors(Te *testing.T) {
	_, err := Summary(nil)
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
	_, err = Summary([]res2desc.Vector{{Values: []float64{1}}, {Index: 1, Values: []float64{1, 2}}})
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
	_, err = Summary([]res2desc.Vector{{}})
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
}

func TestSave(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "fingerprints.png")
	require.NoError(Te, Save(vecs, "Test fingerprints", name))
	info, err := os.Stat(name)
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
}

func TestPlotLimits(Te *testing.T) {
	p, err := Plot(vecs, "limits", 1)
	require.NoError(Te, err)
	assert.LessOrEqual(Te, p.Y.Min, 0.0)
	assert.GreaterOrEqual(Te, p.Y.Max, 4.0)
}

func TestSaveBadPath(Te *testing.T) {
	err := Save(vecs, "nowhere", filepath.Join(Te.TempDir(), "no", "such", "dir", "p.png"))
	assert.True(Te, errors.Is(err, res2desc.ErrIO))
}
