/*
 * pipeline_test.go, part of res2desc.
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

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/res2desc/res2desc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// slowDescriptor returns the index of the structure, taking longer for
// the early ones so that completion order is roughly reversed.
type slowDescriptor struct {
	mu    sync.Mutex
	total int
	fail  int
}

func (D *slowDescriptor) Create(S *res2desc.Structure) ([]float64, error) {
	if !D.mu.TryLock() {
		panic("descriptor used by two workers at once")
	}
	defer D.mu.Unlock()
	time.Sleep(time.Duration((D.total-S.Index)%5) * time.Millisecond)
	if S.Index == D.fail {
		return nil, errors.New("boom")
	}
	return []float64{float64(S.Index), 1}, nil
}

func structures(n, offset int) []*res2desc.Structure {
	ret := make([]*res2desc.Structure, n)
	for i := range ret {
		ret[i] = &res2desc.Structure{Index: i + offset, Species: []string{"Si"}, Coords: []r3.Vec{{}}}
	}
	return ret
}

func countingFactory(calls *int32, total, fail int) Factory {
	return func(cfg res2desc.DescriptorConfig) (Descriptor, error) {
		atomic.AddInt32(calls, 1)
		return &slowDescriptor{total: total, fail: fail}, nil
	}
}

func TestOrder(Te *testing.T) {
	const n = 40
	for _, workers := range []int{1, 2, n, 0} {
		var calls int32
		S := structures(n, 100)
		vecs, err := Compute(context.Background(), S, res2desc.DescriptorConfig{},
			WithWorkers(workers), WithFactory(countingFactory(&calls, 100+n, -1)))
		require.NoError(Te, err)
		require.Len(Te, vecs, n)
		for i, v := range vecs {
			assert.Equal(Te, S[i].Index, v.Index, "workers=%d", workers)
			assert.Equal(Te, float64(S[i].Index), v.Values[0], "workers=%d", workers)
		}
		if workers > 0 {
			assert.LessOrEqual(Te, int(calls), workers)
		}
		assert.GreaterOrEqual(Te, int(calls), 1)
	}
}

func TestFailFast(Te *testing.T) {
	var calls int32
	vecs, err := Compute(context.Background(), structures(30, 0), res2desc.DescriptorConfig{},
		WithWorkers(3), WithFactory(countingFactory(&calls, 30, 7)))
	require.Error(Te, err)
	assert.Nil(Te, vecs)
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
	assert.Contains(Te, err.Error(), "boom")
}

func TestFactoryError(Te *testing.T) {
	f := func(cfg res2desc.DescriptorConfig) (Descriptor, error) {
		return nil, errors.New("no descriptor today")
	}
	_, err := Compute(context.Background(), structures(5, 0), res2desc.DescriptorConfig{}, WithWorkers(2), WithFactory(f))
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
}

func TestDefaultFactoryConfigError(Te *testing.T) {
	_, err := Compute(context.Background(), structures(2, 0), res2desc.DescriptorConfig{})
	assert.True(Te, errors.Is(err, res2desc.ErrConfig))
}

type ragged struct{}

func (ragged) Create(S *res2desc.Structure) ([]float64, error) {
	return make([]float64, 1+S.Index%2), nil
}

func TestRaggedVectors(Te *testing.T) {
	f := func(cfg res2desc.DescriptorConfig) (Descriptor, error) { return ragged{}, nil }
	_, err := Compute(context.Background(), structures(4, 0), res2desc.DescriptorConfig{}, WithFactory(f))
	assert.True(Te, errors.Is(err, res2desc.ErrCompute))
}

func TestEmpty(Te *testing.T) {
	vecs, err := Compute(context.Background(), nil, res2desc.DescriptorConfig{})
	require.NoError(Te, err)
	assert.Empty(Te, vecs)
}

func TestCancelled(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32
	_, err := Compute(ctx, structures(10, 0), res2desc.DescriptorConfig{}, WithWorkers(2), WithFactory(countingFactory(&calls, 10, -1)))
	assert.True(Te, errors.Is(err, context.Canceled))
}

func TestProgress(Te *testing.T) {
	var calls int32
	var last, count int
	p := func(done, total int) {
		count++
		last = done
		assert.Equal(Te, 12, total)
	}
	_, err := Compute(context.Background(), structures(12, 0), res2desc.DescriptorConfig{},
		WithWorkers(4), WithFactory(countingFactory(&calls, 12, -1)), WithProgress(p))
	require.NoError(Te, err)
	assert.Equal(Te, 12, count)
	assert.Equal(Te, 12, last)
}

func TestFingerprintWorkersAgree(Te *testing.T) {
	cfg := res2desc.DescriptorConfig{Cutoff: 4, LMax: 3, NMax: 4, Sigma: 0.2, Species: []string{"Al", "O"}, Average: true, Periodic: true, Crossover: true}
	var S []*res2desc.Structure
	for i := 0; i < 9; i++ {
		a := 3 + 0.1*float64(i)
		S = append(S, &res2desc.Structure{
			Index:   i,
			Species: []string{"Al", "O"},
			Coords:  []r3.Vec{{}, {X: 0.5, Y: 0.5, Z: 0.5}},
			Lattice: []float64{a, a, a, 90, 90, 90},
		})
	}
	one, err := Compute(context.Background(), S, cfg, WithWorkers(1))
	require.NoError(Te, err)
	many, err := Compute(context.Background(), S, cfg, WithWorkers(4))
	require.NoError(Te, err)
	assert.Equal(Te, one, many)
	assert.NotEqual(Te, one[0].Values, one[8].Values)
}
