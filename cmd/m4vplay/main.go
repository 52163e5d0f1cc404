// Command m4vplay is the thin invocation shell spec.md §1 names as an
// out-of-scope collaborator: it parses PlayOptions flags and a filename,
// then hands both to the engine. Grounded on
// References/orion-prototipe/cmd/oriond/main.go's flag-parse ->
// structured-logger setup -> construct -> run -> graceful-shutdown
// shape, collapsed to a single blocking Play call instead of a
// long-lived service loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/handheld-labs/m4vplay"
	"github.com/handheld-labs/m4vplay/internal/playconfig"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML PlayOptions file (flags below override it)")
	debug := flag.Bool("debug", false, "enable debug logging")

	benchmark := flag.Bool("benchmark", false, "skip pacing sleep; do not change LCD")
	blitDuringBenchmark := flag.Bool("blit-during-benchmark", false, "still blit while benchmarking")
	fastDecode := flag.Bool("fast-decode", true, "set decoder fast flag")
	lowDelay := flag.Bool("low-delay", true, "set decoder low-delay flag; disables B-frames")
	deblockLuma := flag.Bool("deblock-luma", false, "decoder post-filter")
	deblockChroma := flag.Bool("deblock-chroma", false, "decoder post-filter")
	deringLuma := flag.Bool("dering-luma", false, "decoder post-filter")
	deringChroma := flag.Bool("dering-chroma", false, "decoder post-filter")
	magicFramebuffer := flag.Bool("magic-framebuffer", true, "use direct scanout buffer")
	use24BitRGB := flag.Bool("use-24-bit-rgb", false, "RGB888 path")
	lcdBlitAPI := flag.Bool("lcd-blit-api", false, "use platform blit primitive")
	preRotatedVideo := flag.Bool("pre-rotated-video", false, "stream is portrait-native")
	screenWidth := flag.Int("screen-width", 320, "LCD width in pixels")
	screenHeight := flag.Int("screen-height", 240, "LCD height in pixels")

	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: m4vplay [flags] <stream.m4v>")
		os.Exit(2)
	}
	streamPath := flag.Arg(0)

	cfg := playconfig.Default()
	if *configPath != "" {
		loaded, err := playconfig.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	cfg.Benchmark = *benchmark
	cfg.BlitDuringBenchmark = *blitDuringBenchmark
	cfg.FastDecode = *fastDecode
	cfg.LowDelay = *lowDelay
	cfg.DeblockLuma = *deblockLuma
	cfg.DeblockChroma = *deblockChroma
	cfg.DeringLuma = *deringLuma
	cfg.DeringChroma = *deringChroma
	cfg.MagicFramebuffer = *magicFramebuffer
	cfg.Use24BitRGB = *use24BitRGB
	cfg.LCDBlitAPI = *lcdBlitAPI
	cfg.PreRotatedVideo = *preRotatedVideo
	cfg.ScreenWidth = *screenWidth
	cfg.ScreenHeight = *screenHeight

	// No real MPEG-4 decompressor ships with this repo (spec.md §1 treats
	// it as an external collaborator). Passing nil makes m4vplay.New bind
	// a native decoder with no hooks, so Play fails at decoder GlobalInit.
	e, err := m4vplay.New(cfg, nil)
	if err != nil {
		slog.Error("failed to construct engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := e.Play(ctx, streamPath); err != nil {
		slog.Error("playback failed", "error", err)
		os.Exit(1)
	}

	slog.Info("playback finished")
}
