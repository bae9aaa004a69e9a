// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/Blosc/BTune"
)

var (
	logLevel   string
	chunkSize  int
	typeSize   int
	nThreads   int
	compMode   string
	perfMode   string
	bandwidth  uint
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "btune-tune",
	Short: "Drive the adaptive compression-parameter tuner over a file",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 64*1024, "chunk size in bytes")
	rootCmd.PersistentFlags().IntVar(&typeSize, "typesize", 8, "element size in bytes of the data being compressed")
	rootCmd.PersistentFlags().IntVar(&nThreads, "threads", 4, "starting thread count for compression and decompression")
	rootCmd.PersistentFlags().StringVar(&compMode, "comp-mode", "balanced", "comp_mode: hsp, balanced or hcr")
	rootCmd.PersistentFlags().StringVar(&perfMode, "perf-mode", "balanced", "perf_mode: comp, decomp or balanced")
	rootCmd.PersistentFlags().UintVar(&bandwidth, "bandwidth", 0, "assumed bandwidth in KB/s, 0 keeps the default bandwidth")

	tuneCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")

	rootCmd.AddCommand(tuneCmd, traceCmd, probeCmd)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

// Execute runs the root command; main.go's sole responsibility.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func parseCompMode(s string) (btune.CompMode, error) {
	switch strings.ToLower(s) {
	case "hsp":
		return btune.CompHSP, nil
	case "balanced":
		return btune.CompBalanced, nil
	case "hcr":
		return btune.CompHCR, nil
	default:
		return 0, fmt.Errorf("unknown comp-mode %q", s)
	}
}

func parsePerfMode(s string) (btune.PerfMode, error) {
	switch strings.ToLower(s) {
	case "comp":
		return btune.PerfComp, nil
	case "decomp":
		return btune.PerfDecomp, nil
	case "balanced":
		return btune.PerfBalanced, nil
	default:
		return 0, fmt.Errorf("unknown perf-mode %q", s)
	}
}

func configFromFlags() (btune.Config, error) {
	cfg := btune.DefaultConfig()
	comp, err := parseCompMode(compMode)
	if err != nil {
		return cfg, err
	}
	perf, err := parsePerfMode(perfMode)
	if err != nil {
		return cfg, err
	}
	cfg.CompMode = comp
	cfg.PerfMode = perf
	if bandwidth > 0 {
		cfg.Bandwidth = uint32(bandwidth)
	}
	return cfg, nil
}

// openFileOrURL opens name for reading. name may be a local path, an
// s3:// path, or an http(s) URL.
func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body, resp.ContentLength, func(context.Context) error {
			return resp.Body.Close()
		}, nil
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
}

func readAll(ctx context.Context, name string) ([]byte, error) {
	rd, _, cleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return nil, err
	}
	defer cleanup(ctx)
	return io.ReadAll(rd)
}

func progressBar(size int64) *progressbar.ProgressBar {
	wr := os.Stdout
	if !terminal.IsTerminal(int(os.Stdout.Fd())) {
		wr = os.Stderr
	}
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetBytes64(size),
		progressbar.OptionSetWriter(wr),
		progressbar.OptionSetPredictTime(true))
	bar.RenderBlank()
	return bar
}

var tuneCmd = &cobra.Command{
	Use:   "tune <file>",
	Short: "Tune compression parameters over a file and report the parameters used for the final chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		cmdutil.HandleSignals(cancel, os.Interrupt)

		errs := &errors.M{}
		cfg, err := configFromFlags()
		if err != nil {
			return err
		}

		buf, err := readAll(ctx, args[0])
		if err != nil {
			return err
		}
		chunks := chunkBuffer(buf, chunkSize)

		var bar *progressbar.ProgressBar
		if !noProgress {
			bar = progressBar(int64(len(buf)))
		}

		var totalIn, totalOut int
		best, err := runTuning(cfg, int32(typeSize), nThreads, chunks, func(r chunkResult) {
			totalIn += r.rawBytes
			totalOut += r.cbytes
			if bar != nil {
				bar.Add(r.rawBytes)
			}
		})
		errs.Append(err)
		if bar != nil {
			fmt.Fprintln(os.Stdout)
		}

		if err == nil {
			ratio := float64(totalIn) / float64(totalOut)
			fmt.Printf("chunks=%d in=%d out=%d ratio=%.3f\n", len(chunks), totalIn, totalOut, ratio)
			fmt.Printf("final: codec=%s filter=%s split=%s clevel=%d blocksize=%d shufflesize=%d threads=%d/%d\n",
				best.Codec, best.Filter, best.SplitMode, best.Clevel, best.BlockSize,
				best.ShuffleSize, best.NThreadsComp, best.NThreadsDecomp)
		}

		return errs.Err()
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Tune compression parameters, serially, printing one line per chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		cmdutil.HandleSignals(cancel, os.Interrupt)

		cfg, err := configFromFlags()
		if err != nil {
			return err
		}

		buf, err := readAll(ctx, args[0])
		if err != nil {
			return err
		}
		chunks := chunkBuffer(buf, chunkSize)

		_, err = runTuning(cfg, int32(typeSize), nThreads, chunks, func(r chunkResult) {
			fmt.Printf("chunk=%-4d codec=%-8s filter=%-10s split=%-7s clevel=%d blocksize=%-8d in=%-8d out=%-8d ctime=%.6f\n",
				r.index, r.candidate.Codec, r.candidate.Filter, r.candidate.SplitMode,
				r.candidate.Clevel, r.candidate.BlockSize, r.rawBytes, r.cbytes, r.ctime)
		})
		return err
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Run only the entropy probe over each chunk and print the estimated ratio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		buf, err := readAll(ctx, args[0])
		if err != nil {
			return err
		}
		chunks := chunkBuffer(buf, chunkSize)
		for i, chunk := range chunks {
			cbytes, err := probeChunk(chunk)
			if err != nil {
				return fmt.Errorf("btune-tune: probing chunk %d: %w", i, err)
			}
			ratio := float64(len(chunk)) / float64(cbytes)
			fmt.Printf("chunk=%-4d in=%-8d estimated_out=%-8d cratio=%.3f\n", i, len(chunk), cbytes, ratio)
		}
		return nil
	},
}
