/*
 * convert.go, part of res2desc.
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

package main

import (
	"context"
	"fmt"

	"github.com/res2desc/res2desc"
	"github.com/res2desc/res2desc/cryan"
	"github.com/res2desc/res2desc/descplot"
	"github.com/res2desc/res2desc/format"
	"github.com/res2desc/res2desc/internal/config"
	"github.com/res2desc/res2desc/internal/stream"
	"github.com/res2desc/res2desc/pipeline"
	"github.com/res2desc/res2desc/res"
	"go.uber.org/zap"
)

// convert reads the inputs, gets the metadata lines, from cryan or from the RES
// headers, computes the descriptors and writes everything out. Nothing is written
// unless all the descriptors were computed.
func convert(ctx context.Context, cfg *config.Config, inputs []string, log *zap.Logger, progress pipeline.Progress) error {
	in, err := stream.Concat(inputs)
	if err != nil {
		return err
	}
	buf, err := cryan.NewBuffer(in)
	in.Close()
	if err != nil {
		return err
	}
	style, err := cfg.Cryan.ParsedStyle()
	if err != nil {
		return err
	}

	var lines []string
	var records []res2desc.Record
	if cfg.Cryan.Enabled {
		H := cryan.NewHandle()
		H.SetCommand(cfg.Cryan.Command)
		H.SetArgs(cfg.Cryan.Args)
		H.SetDir(cfg.Cryan.Dir)
		H.SetLogger(log)
		R, err := cryan.Adapt(ctx, H, buf, style)
		if err != nil {
			return err
		}
		lines, records, style = R.Lines, R.Records, R.Style
	} else {
		records, err = res.ParseStream(buf)
		if err != nil {
			return err
		}
		lines = format.MetadataLines(records)
	}
	log.Info("structures read", zap.Int("count", len(records)), zap.Int64("bytes", buf.Size()), zap.Bool("cryan", cfg.Cryan.Enabled))

	species := cfg.Descriptor.Species
	if len(species) == 0 {
		species = speciesOf(records)
		log.Debug("species taken from the input", zap.Strings("species", species))
	}
	dcfg := cfg.Descriptor.ToDescriptor(species)
	if err := dcfg.Validate(); err != nil {
		return err
	}
	opts := []pipeline.Option{pipeline.WithWorkers(cfg.Run.Workers), pipeline.WithLogger(log)}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}
	vecs, err := pipeline.Compute(ctx, res2desc.Structures(records), dcfg, opts...)
	if err != nil {
		return err
	}
	dim := 0
	if len(vecs) > 0 {
		dim = vecs[0].Len()
	}
	log.Info("descriptors computed", zap.Int("count", len(vecs)), zap.Int("dimension", dim), zap.Stringer("config", dcfg))

	if err := write(cfg.Run, lines, vecs, style); err != nil {
		return err
	}
	log.Info("output written", zap.String("output", cfg.Run.Output), zap.String("layout", cfg.Run.Layout))
	if cfg.Run.Plot != "" {
		title := fmt.Sprintf("%d structures, %s", len(vecs), dcfg)
		if err := descplot.Save(vecs, title, cfg.Run.Plot); err != nil {
			return err
		}
		log.Info("plot written", zap.String("file", cfg.Run.Plot))
	}
	return nil
}

func write(run config.RunConfig, lines []string, vecs []res2desc.Vector, detected res2desc.Style) error {
	out, err := stream.Create(run.Output)
	if err != nil {
		return err
	}
	if style, ok := run.OutputStyle(detected); ok {
		err = format.Write(out, lines, vecs, style)
	} else {
		err = format.WriteTable(out, lines, vecs)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = res2desc.WrapError(res2desc.ErrIO, cerr, run.Output, "write")
	}
	return err
}

// speciesOf returns every species in the records, in order of first appearance.
func speciesOf(records []res2desc.Record) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, r := range records {
		symbols, _ := r.Structure.Composition()
		for _, s := range symbols {
			if !seen[s] {
				seen[s] = true
				ret = append(ret, s)
			}
		}
	}
	return ret
}
