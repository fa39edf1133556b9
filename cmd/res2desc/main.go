/*
 * main.go, part of res2desc.
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

// Command res2desc reads AIRSS RES files and writes a descriptor vector for every
// structure in them, each followed by the metadata line cryan gives for it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/res2desc/res2desc/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

type cliFlags struct {
	config     string
	verbose    bool
	noCryan    bool
	cryanCmd   string
	cryanArgs  []string
	style      string
	layout     string
	output     string
	plot       string
	workers    int
	timeout    time.Duration
	cutoff     float64
	sigma      float64
	lmax       int
	nmax       int
	species    []string
	average    bool
	periodic   bool
	crossover  bool
	noProgress bool
}

func newRootCmd() *cobra.Command {
	f := new(cliFlags)
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "res2desc [file.res ...]",
		Short: "Compute structure descriptors for AIRSS results",
		Long: `res2desc reads structures in RES format (from the files given, or the standard
input) and computes a fixed-length descriptor vector for each of them.

Unless --no-cryan is given, the input is first passed through cryan, and the
metadata line cryan prints for each structure is written after its vector.
Files ending in .zst or .gz are decompressed, and the output is compressed
the same way if its name ends like that.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if f.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.Run.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Run.Timeout)
				defer cancel()
			}
			var progress func(done, total int)
			if !f.noProgress && defaultProgressEnabled() {
				progress = newProgress("descriptors")
			}
			return convert(ctx, cfg, args, logger, progress)
		},
	}
	fl := cmd.Flags()
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug information")
	fl.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fl.BoolVar(&f.noCryan, "no-cryan", false, "do not run cryan; build the metadata lines from the RES headers")
	fl.StringVar(&f.cryanCmd, "cryan-cmd", def.Cryan.Command, "cryan executable")
	fl.StringSliceVar(&f.cryanArgs, "cryan-args", def.Cryan.Args, "arguments for cryan")
	fl.StringVar(&f.style, "style", def.Cryan.Style, "cryan output style to try first (two-line or three-line)")
	fl.StringVar(&f.layout, "layout", def.Run.Layout, "output layout: auto, two-line, three-line or table")
	fl.StringVarP(&f.output, "output", "o", def.Run.Output, "output file, - for the standard output")
	fl.StringVar(&f.plot, "plot", "", "also plot the descriptors to this image file")
	fl.IntVarP(&f.workers, "workers", "j", def.Run.Workers, "number of workers, 0 for one per CPU")
	fl.DurationVar(&f.timeout, "timeout", 0, "give up after this long, 0 for no limit")
	fl.Float64Var(&f.cutoff, "cutoff", def.Descriptor.Cutoff, "cutoff radius in Angstrom")
	fl.Float64Var(&f.sigma, "sigma", def.Descriptor.Sigma, "atom smoothing width in Angstrom")
	fl.IntVar(&f.lmax, "lmax", def.Descriptor.LMax, "angular order")
	fl.IntVar(&f.nmax, "nmax", def.Descriptor.NMax, "radial order")
	fl.StringSliceVar(&f.species, "species", nil, "species, in order (default: those in the input)")
	fl.BoolVar(&f.average, "average", def.Descriptor.Average, "average over atoms instead of summing")
	fl.BoolVar(&f.periodic, "periodic", def.Descriptor.Periodic, "use periodic images")
	fl.BoolVar(&f.crossover, "crossover", def.Descriptor.Crossover, "include terms between different species")
	fl.BoolVar(&f.noProgress, "no-progress", false, "do not show a progress bar")
	return cmd
}

// loadConfig reads the config file, if any, and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *cliFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		cfg, err = config.LoadFromFile(f.config)
		if err != nil {
			return nil, err
		}
	}
	set := cmd.Flags().Changed
	if set("no-cryan") {
		cfg.Cryan.Enabled = !f.noCryan
	}
	if set("cryan-cmd") {
		cfg.Cryan.Command = f.cryanCmd
	}
	if set("cryan-args") {
		cfg.Cryan.Args = f.cryanArgs
	}
	if set("style") {
		cfg.Cryan.Style = f.style
	}
	if set("layout") {
		cfg.Run.Layout = f.layout
	}
	if set("output") {
		cfg.Run.Output = f.output
	}
	if set("plot") {
		cfg.Run.Plot = f.plot
	}
	if set("workers") {
		cfg.Run.Workers = f.workers
	}
	if set("timeout") {
		cfg.Run.Timeout = f.timeout
	}
	if set("cutoff") {
		cfg.Descriptor.Cutoff = f.cutoff
	}
	if set("sigma") {
		cfg.Descriptor.Sigma = f.sigma
	}
	if set("lmax") {
		cfg.Descriptor.LMax = f.lmax
	}
	if set("nmax") {
		cfg.Descriptor.NMax = f.nmax
	}
	if set("species") {
		cfg.Descriptor.Species = f.species
	}
	if set("average") {
		cfg.Descriptor.Average = f.average
	}
	if set("periodic") {
		cfg.Descriptor.Periodic = f.periodic
	}
	if set("crossover") {
		cfg.Descriptor.Crossover = f.crossover
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
