// Command mp4decrypt decrypts MP4-family files with the native decryption
// engine behind pkg/mp4decrypt. Keys are passed as repeatable -k KID:KEY
// pairs; -list prints tracks and default key IDs without decrypting.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/streamkit/mp4decrypt-go/pkg/mp4decrypt"
	"github.com/streamkit/mp4decrypt-go/pkg/mp4decrypt/logging"
)

type config struct {
	inPath        string
	outPath       string
	fragmentsPath string
	keys          keyList
	list          bool
	showVersion   bool
	verbose       bool
}

func main() {
	// A missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("mp4decrypt %s (engine %s, backend %s)\n",
			mp4decrypt.WrapperVersion(), mp4decrypt.EngineVersion(), mp4decrypt.EngineBackend())
		return
	}

	if cfg.inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		flag.Usage()
		os.Exit(1)
	}

	log := logging.NewText(os.Stderr, logLevel(cfg.verbose))

	if err := run(context.Background(), log, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *config {
	cfg := &config{keys: keyList{}}

	flag.StringVar(&cfg.inPath, "i", "", "")
	flag.StringVar(&cfg.outPath, "o", "", "")
	flag.Var(cfg.keys, "k", "")
	flag.Var(cfg.keys, "key", "")
	flag.StringVar(&cfg.fragmentsPath, "fragments-info", "", "")
	flag.BoolVar(&cfg.list, "list", false, "")
	flag.BoolVar(&cfg.showVersion, "version", false, "")
	flag.BoolVar(&cfg.verbose, "v", false, "")

	flag.Usage = printUsage
	flag.Parse()

	return cfg
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mp4decrypt - decrypt MP4-family files with a native decryption engine

Usage: mp4decrypt [options] -i <input> -o <output> -k <KID:KEY> [-k ...]
       mp4decrypt -list -i <input>

Options:
  -i <path>               Input file [required]
  -o <path>               Output file [required unless -list]
  -k, -key <KID:KEY>      Decryption key (repeatable). KID is 32 hex chars;
                          1-based track indexes work too (1:KEY), and index 0
                          addresses Marlin IPMP/ACGK tracks.
  -fragments-info <path>  Out-of-band init data (moov with trex and sample
                          descriptions) for fragment streams that lack one
  -list                   Print tracks and default key IDs, then exit
  -v                      Verbose logging (or MP4DECRYPT_LOG_LEVEL=debug)
  -version                Show version and engine backend

Environment:
  MP4DECRYPT_LIBRARY    Engine library path for the dlopen backend
  MP4DECRYPT_LOG_LEVEL  debug, info, warn or error (default info)

Examples:
  mp4decrypt -i enc.mp4 -o dec.mp4 -k eb676abbcb345e96bbcf616630f1a3da:100b6c20940f779a4589152b57d2dacb
  mp4decrypt -list -i enc.mp4
`)
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("MP4DECRYPT_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(ctx context.Context, log logging.Logger, cfg *config) error {
	if cfg.list {
		return probeFile(os.Stdout, cfg.inPath)
	}

	if cfg.outPath == "" {
		return errors.New("-o is required")
	}
	if len(cfg.keys) == 0 {
		return errors.New("at least one -k KID:KEY is required")
	}

	data, err := os.ReadFile(cfg.inPath)
	if err != nil {
		return err
	}

	var fragmentsInfo []byte
	if cfg.fragmentsPath != "" {
		fragmentsInfo, err = os.ReadFile(cfg.fragmentsPath)
		if err != nil {
			return err
		}
	}

	log.Debug(ctx, "decrypting",
		"input", cfg.inPath, "bytes", len(data), "key_count", len(cfg.keys),
		logging.Redacted("keys"))

	out, err := mp4decrypt.Decrypt(data, cfg.keys, fragmentsInfo)
	if err != nil {
		switch {
		case errors.Is(err, mp4decrypt.ErrEngineUnavailable):
			return fmt.Errorf("%w (build with CGO_ENABLED=1 or point MP4DECRYPT_LIBRARY at the engine library)", err)
		case mp4decrypt.IsInvalidFormat(err):
			return fmt.Errorf("bad key material: %w", err)
		case mp4decrypt.IsDataTooLarge(err):
			return fmt.Errorf("%s: %w", cfg.inPath, err)
		default:
			return fmt.Errorf("decrypt %s: %w", cfg.inPath, err)
		}
	}

	if err := os.WriteFile(cfg.outPath, out, 0o644); err != nil {
		return err
	}
	log.Info(ctx, "decrypted", "input", cfg.inPath, "output", cfg.outPath, "bytes", len(out))
	return nil
}
