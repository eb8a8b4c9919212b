// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Command recommend prints one recommendation slate for a taste signal.
//
// Usage:
//
//	recommend [flags] '<colours json>'
//
// The argument is either a bare array of five colours or a request object:
//
//	recommend '[{"bgr":[10,20,30],"hsv":[100,50,40],"lab":[20,5,5],"percentage":0.3}, ...]'
//	recommend -user alice -k 5 '{"colors":[...],"seed":7}'
//
// Catalog paths, ranking knobs, and the exposure backend come from the same
// configuration as the server (environment variables and config.yaml).
// Flags override the request fields.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/config"
	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/logging"
	"github.com/tomtom215/pigment/internal/recommend"
	"github.com/tomtom215/pigment/internal/recommend/reranking"
	"github.com/tomtom215/pigment/internal/validation"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the parsed command line flags.
type options struct {
	palettes string
	items    string
	userID   string
	k        int
	seed     int64
	record   bool
	compact  bool
	raw      string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: recommend [flags] '<colours json>'")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.palettes, "palettes", "", "cluster palette CSV (overrides CLUSTER_PALETTES_PATH)")
	fs.StringVar(&opts.items, "items", "", "colour data CSV (overrides COLOUR_DATA_PATH)")
	fs.StringVar(&opts.userID, "user", "", "user id for exposure state")
	fs.IntVar(&opts.k, "k", 0, "number of recommendations")
	fs.Int64Var(&opts.seed, "seed", 0, "sampling seed (0 draws a fresh seed)")
	fs.BoolVar(&opts.record, "record", false, "record the slate as served (global counts, plus -user when set)")
	fs.BoolVar(&opts.compact, "compact", false, "print compact JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one colours argument")
	}
	opts.raw = fs.Arg(0)
	return opts, nil
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	in, err := decodeRequest([]byte(opts.raw))
	if err != nil {
		fmt.Fprintf(stderr, "invalid colours json: %v\n", err)
		return exitUsage
	}
	opts.apply(&in)
	if verr := validation.ValidateStruct(&in); verr != nil {
		fmt.Fprintf(stderr, "invalid request: %v\n", verr)
		return exitUsage
	}
	req := in.Request()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load configuration: %v\n", err)
		return exitError
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
		Output:    stderr,
	})
	if opts.palettes != "" {
		cfg.Catalog.PalettesPath = opts.palettes
	}
	if opts.items != "" {
		cfg.Catalog.ItemsPath = opts.items
	}

	resp, err := recommendOnce(ctx, cfg, req, opts.record)
	if err != nil {
		logging.Error().Err(err).Msg("Recommendation failed")
		return exitError
	}

	if err := writeResponse(stdout, resp, opts.compact); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return exitError
	}
	return exitOK
}

func (o *options) apply(req *recommend.RequestInput) {
	if o.userID != "" {
		req.UserID = o.userID
	}
	if o.k != 0 {
		req.K = o.k
	}
	if o.seed != 0 {
		req.Seed = o.seed
	}
}

// decodeRequest accepts a bare colour array or a request object.
func decodeRequest(raw []byte) (recommend.RequestInput, error) {
	var req recommend.RequestInput
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, errors.New("empty input")
	}
	if raw[0] == '[' {
		err := json.Unmarshal(raw, &req.Signal)
		return req, err
	}
	err := json.Unmarshal(raw, &req)
	return req, err
}

func recommendOnce(ctx context.Context, cfg *config.Config, req recommend.Request, record bool) (*recommend.Response, error) {
	cat, err := catalog.Load(cfg.Catalog.PalettesPath, cfg.Catalog.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	store, err := exposure.New(cfg.ToExposureConfig(), logging.WithComponent("exposure"))
	if err != nil {
		return nil, fmt.Errorf("open exposure store: %w", err)
	}
	defer store.Close()

	engineCfg := cfg.ToEngineConfig()
	engine, err := recommend.NewEngine(engineCfg, cat, store, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	engine.RegisterReranker(reranking.NewMMR(engineCfg.Diversity.LambdaMMR, engineCfg.Diversity.ArtistPenalty))
	engine.RegisterReranker(reranking.NewQuota(engineCfg.Diversity.QuotaMax))

	resp, err := engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	if record {
		ids := make([]string, len(resp.Items))
		for i := range resp.Items {
			ids[i] = resp.Items[i].ItemID
		}
		if err := engine.RecordServed(ctx, req.UserID, ids); err != nil {
			logging.Warn().Err(err).Msg("Failed to record served slate")
		}
	}
	return resp, nil
}

func writeResponse(w io.Writer, resp *recommend.Response, compact bool) error {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = json.Marshal(resp)
	} else {
		out, err = json.MarshalIndent(resp, "", "  ")
	}
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
