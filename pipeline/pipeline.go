/*
 * pipeline.go, part of res2desc.
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

/*Package pipeline computes descriptor vectors for a sequence of structures using a
fixed pool of workers, and returns them in the order the structures were given.

Each structure is submitted as a task tagged with its position. Workers take tasks
in whatever order they come and finish them in whatever order they finish; the
tag travels with the result, and the results are sorted by it once all of them are
in. Nothing else is relied upon for ordering.

Every worker builds its own descriptor, with the Factory, the first time it gets a
task. Descriptors are never shared between workers.

The first error from any worker stops the whole batch: the remaining tasks are
dropped and Compute returns that error with no vectors.
*/
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/res2desc/res2desc"
	"github.com/res2desc/res2desc/fingerprint"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Descriptor computes the descriptor vector of one structure. Implementations
// must be deterministic and return vectors of the same length for a given configuration.
type Descriptor interface {
	Create(S *res2desc.Structure) ([]float64, error)
}

// Factory builds a Descriptor for a configuration.
type Factory func(cfg res2desc.DescriptorConfig) (Descriptor, error)

// Fingerprint is the default Factory.
func Fingerprint(cfg res2desc.DescriptorConfig) (Descriptor, error) {
	F, err := fingerprint.New(cfg)
	if err != nil {
		return nil, err
	}
	return F, nil
}

// Progress is called by the coordinating goroutine each time a vector is
// collected, with the number collected so far and the total.
type Progress func(done, total int)

type options struct {
	workers  int
	factory  Factory
	logger   *zap.Logger
	progress Progress
}

// Option configures Compute.
type Option func(*options)

// WithWorkers sets the number of workers. Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithFactory replaces the default Fingerprint factory.
func WithFactory(f Factory) Option {
	return func(o *options) { o.factory = f }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress sets a progress callback.
func WithProgress(p Progress) Option {
	return func(o *options) { o.progress = p }
}

// task is a structure tagged with its position in the input.
type task struct {
	seq int
	s   *res2desc.Structure
}

// result carries the tag of the task it was computed from.
type result struct {
	seq int
	vec res2desc.Vector
}

// Compute returns one vector per structure, result i computed from structures[i].
// The Index of each vector is the Index of its structure. cfg is passed, by value,
// to the Factory of every worker.
// Cancelling ctx stops the workers after their current structure, and Compute returns ctx's error.
func Compute(ctx context.Context, structures []*res2desc.Structure, cfg res2desc.DescriptorConfig, opts ...Option) ([]res2desc.Vector, error) {
	o := options{factory: Fingerprint, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	total := len(structures)
	if total == 0 {
		return []res2desc.Vector{}, nil
	}
	if o.workers > total {
		o.workers = total
	}
	o.logger.Debug("computing descriptors", zap.Int("structures", total), zap.Int("workers", o.workers))

	g, gctx := errgroup.WithContext(ctx)
	tasks := make(chan task)
	results := make(chan result, total)

	g.Go(func() error {
		defer close(tasks)
		for i, s := range structures {
			select {
			case tasks <- task{seq: i, s: s}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < o.workers; w++ {
		w := w
		g.Go(func() error {
			return work(gctx, w, tasks, results, cfg, o.factory)
		})
	}

	//collect while the workers run so progress can be reported
	collected := make([]result, 0, total)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			collected = append(collected, r)
			if o.progress != nil {
				o.progress(len(collected), total)
			}
		}
	}()
	err := g.Wait()
	close(results)
	<-done
	if err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrCompute, "pipeline.Compute")
	}
	vecs, err := merge(collected, total)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("descriptors computed", zap.Int("structures", total), zap.Int("dimension", vecs[0].Len()))
	return vecs, nil
}

func work(ctx context.Context, id int, tasks <-chan task, results chan<- result, cfg res2desc.DescriptorConfig, factory Factory) error {
	var desc Descriptor
	for t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if desc == nil {
			var err error
			desc, err = factory(cfg)
			if err != nil {
				return res2desc.Decorate(err, res2desc.ErrCompute, fmt.Sprintf("worker %d: building descriptor", id))
			}
		}
		v, err := desc.Create(t.s)
		if err != nil {
			return res2desc.Decorate(err, res2desc.ErrCompute, fmt.Sprintf("worker %d: structure %d", id, t.s.Index))
		}
		results <- result{seq: t.seq, vec: res2desc.Vector{Index: t.s.Index, Values: v}}
	}
	return nil
}

// merge puts the results back in submission order, and checks that every
// structure got exactly one vector and all the vectors have the same length.
func merge(collected []result, total int) ([]res2desc.Vector, error) {
	sort.Slice(collected, func(i, j int) bool { return collected[i].seq < collected[j].seq })
	if len(collected) != total {
		return nil, res2desc.Errorf(res2desc.ErrCompute, "pipeline.merge", "%d vectors for %d structures", len(collected), total)
	}
	ret := make([]res2desc.Vector, total)
	for i, r := range collected {
		if r.seq != i {
			return nil, res2desc.Errorf(res2desc.ErrCompute, "pipeline.merge", "missing or repeated vector for structure %d", i)
		}
		if r.vec.Len() != collected[0].vec.Len() {
			return nil, res2desc.Errorf(res2desc.ErrCompute, "pipeline.merge", "vector %d has length %d, vector 0 has %d", i, r.vec.Len(), collected[0].vec.Len())
		}
		ret[i] = r.vec
	}
	return ret, nil
}
