/*
 * fingerprint_test.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package fingerprint

import (
	"errors"
	"math"
	"testing"

	"github.com/res2desc/res2desc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() res2desc.DescriptorConfig {
	return res2desc.DescriptorConfig{
		Cutoff:    3.5,
		LMax:      2,
		NMax:      3,
		Sigma:     0.1,
		Species:   []string{"Si", "O"},
		Average:   false,
		Periodic:  true,
		Crossover: true,
	}
}

func dimer(d float64) *res2desc.Structure {
	return &res2desc.Structure{
		Species: []string{"Si", "O"},
		Coords:  []r3.Vec{{X: 1, Y: 2, Z: 3}, {X: 1 + d, Y: 2, Z: 3}},
	}
}

func TestDim(Te *testing.T) {
	cfg := testConfig()
	F, err := New(cfg)
	require.NoError(Te, err)
	assert.Equal(Te, 3*3+2*3, F.Dim())
	cfg.Crossover = false
	F, err = New(cfg)
	require.NoError(Te, err)
	assert.Equal(Te, 2*3+2*3, F.Dim())
	v, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	assert.Len(Te, v, F.Dim())
}

func TestInvalidConfig(Te *testing.T) {
	cfg := testConfig()
	cfg.Species = nil
	_, err := New(cfg)
	assert.True(Te, errors.Is(err, res2desc.ErrConfig))
	cfg = testConfig()
	cfg.Species = []string{"Si", "Si"}
	_, err = New(cfg)
	assert.True(Te, errors.Is(err, res2desc.ErrConfig))
}

func TestComputeErrors(Te *testing.T) {
	F, err := New(testConfig())
	require.NoError(Te, err)
	_, err = F.Create(&res2desc.Structure{Index: 4})
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
	_, err = F.Create(&res2desc.Structure{Species: []string{"Al"}, Coords: []r3.Vec{{}}})
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
	bad := dimer(1)
	bad.Lattice = []float64{1, 1, 1, 10, 10, 120}
	_, err = F.Create(bad)
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
}

func TestDeterministicAndInvariant(Te *testing.T) {
	F, err := New(testConfig())
	require.NoError(Te, err)
	a, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	b, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	assert.Equal(Te, a, b)

	moved := dimer(1.6)
	for i := range moved.Coords {
		moved.Coords[i] = r3.Add(moved.Coords[i], r3.Vec{X: -7, Y: 0.3, Z: 11})
	}
	c, err := F.Create(moved)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, a, c, 1e-12)

	swapped := &res2desc.Structure{Species: []string{"O", "Si"}, Coords: []r3.Vec{{X: 2.6, Y: 2, Z: 3}, {X: 1, Y: 2, Z: 3}}}
	d, err := F.Create(swapped)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, a, d, 1e-12)

	e, err := F.Create(dimer(1.7))
	require.NoError(Te, err)
	assert.False(Te, floats.EqualApprox(a, e, 1e-6))
}

func TestNoCrossover(Te *testing.T) {
	cfg := testConfig()
	cfg.Crossover = false
	F, err := New(cfg)
	require.NoError(Te, err)
	v, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, floats.Norm(v, 2))
}

func TestSimpleCubic(Te *testing.T) {
	cfg := testConfig()
	cfg.Species = []string{"Si"}
	F, err := New(cfg)
	require.NoError(Te, err)
	S := &res2desc.Structure{
		Species: []string{"Si"},
		Coords:  []r3.Vec{{X: 0.5, Y: 0.5, Z: 0.5}},
		Lattice: []float64{3, 3, 3, 90, 90, 90},
	}
	v, err := F.Create(S)
	require.NoError(Te, err)
	require.Len(Te, v, 3+3)
	fc := 0.5 * (math.Cos(math.Pi*3/3.5) + 1)
	//6 neighbours at 3 A, 15 pairs of them: 12 at right angles, 3 opposite.
	for k, c := range F.centres {
		want := 6 * fc * math.Exp(-(3-c)*(3-c)/F.width2)
		assert.InDelta(Te, want, v[k], 1e-12)
	}
	ang := v[3:]
	assert.InDelta(Te, 15*fc*fc, ang[0], 1e-12)
	assert.InDelta(Te, -3*fc*fc, ang[1], 1e-12)
	assert.InDelta(Te, (12*-0.5+3*1)*fc*fc, ang[2], 1e-12)

	cfg.Periodic = false
	F, err = New(cfg)
	require.NoError(Te, err)
	v, err = F.Create(S)
	require.NoError(Te, err)
	assert.Equal(Te, 0.0, floats.Norm(v, 2))
}

func TestAverage(Te *testing.T) {
	cfg := testConfig()
	F, err := New(cfg)
	require.NoError(Te, err)
	sum, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	cfg.Average = true
	F, err = New(cfg)
	require.NoError(Te, err)
	avg, err := F.Create(dimer(1.6))
	require.NoError(Te, err)
	floats.Scale(2, avg)
	assert.InDeltaSlice(Te, sum, avg, 1e-12)
}

func TestLegendre(Te *testing.T) {
	p := make([]float64, 4)
	legendre(p, 0.3)
	assert.InDeltaSlice(Te, []float64{1, 0.3, 0.5 * (3*0.09 - 1), 0.5 * (5*0.027 - 3*0.3)}, p, 1e-12)
	legendre(p, 1.0000001)
	assert.InDeltaSlice(Te, []float64{1, 1, 1, 1}, p, 1e-12)
}

// Moving an atom by a whole cell vector gives the same structure.
func TestLatticeTranslation(Te *testing.T) {
	cfg := testConfig()
	cfg.Species = []string{"Si"}
	cfg.Cutoff = 4.9
	F, err := New(cfg)
	require.NoError(Te, err)
	S := func(x float64) *res2desc.Structure {
		return &res2desc.Structure{
			Species: []string{"Si", "Si"},
			Coords:  []r3.Vec{{X: 0.99, Y: 0.5, Z: 0.5}, {X: x, Y: 0.5, Z: 0.5}},
			Lattice: []float64{5, 5, 5, 90, 90, 90},
		}
	}
	want, err := F.Create(S(0.95))
	require.NoError(Te, err)
	for _, x := range []float64{-0.05, 1.95, -2.05} {
		got, err := F.Create(S(x))
		require.NoError(Te, err)
		assert.InDeltaSlice(Te, want, got, 1e-9, "x=%g", x)
	}
	in := S(-0.05)
	_, err = F.Create(in)
	require.NoError(Te, err)
	assert.Equal(Te, -0.05, in.Coords[1].X, "input must not change")
}
