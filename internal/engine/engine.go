// Package engine implements the playback engine façade of spec.md §2 C11
// and §4.8/§4.9's construction, run, and cleanup sequence.
//
// Grounded on References/orion-prototipe/internal/core/orion.go's
// construct -> initialize -> Run -> Shutdown lifecycle and its
// GetStatus-style diagnostics report, adapted from a long-lived
// multi-worker service to a single synchronous playback session.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/handheld-labs/m4vplay/internal/alignedalloc"
	"github.com/handheld-labs/m4vplay/internal/cancelkey"
	"github.com/handheld-labs/m4vplay/internal/decoder"
	"github.com/handheld-labs/m4vplay/internal/inflight"
	"github.com/handheld-labs/m4vplay/internal/inputbuffer"
	"github.com/handheld-labs/m4vplay/internal/lcd"
	"github.com/handheld-labs/m4vplay/internal/pacing"
	"github.com/handheld-labs/m4vplay/internal/playconfig"
	"github.com/handheld-labs/m4vplay/internal/playerr"
	"github.com/handheld-labs/m4vplay/internal/stats"
	"github.com/handheld-labs/m4vplay/internal/swapchain"
	"github.com/handheld-labs/m4vplay/internal/timer"
	"github.com/handheld-labs/m4vplay/internal/volparser"
)

// sramScratchSize is the on-chip SRAM region size the decoder's
// lookup tables need (spec.md §6).
const sramScratchSize = 128 * 1024

// Engine owns every resource of a single playback session: frame
// buffers, the file, the decoder handle, the timer, and the LCD
// surface (spec.md §5 "Shared resources").
type Engine struct {
	cfg    playconfig.Config
	log    *slog.Logger
	runID  string
	newDec func() decoder.Decoder

	sramScratch     []byte
	sramScratchCopy []byte

	failed  bool
	message string

	stats *stats.Collector

	// The following mirror the last Play call's live state, kept around
	// after Play returns so DumpState can report on them (spec.md §7
	// "dump_state()").
	fileOpen  bool
	chainSize int
	queueCap  int
	queueLen  int
	vol       volparser.Info
	lastBlit  uint32
}

// State is the dump_state() diagnostic report of spec.md §7.
type State struct {
	FileOpen        bool
	ChainSize       int
	QueueCapacity   int
	QueueLen        int
	LastBlitTicks   uint32
	TimingR         uint16
	TimingFixed     bool
	TimingIncrement uint16
	Failed          bool
	ErrorMessage    string

	DecodeI, DecodeP stats.FiveNumber
	DecodeB, DecodeS stats.FiveNumber
	Wasted, Blit     stats.FiveNumber
	PacingWaits      stats.FiveNumber
	FrameTotals      stats.FiveNumber

	FramesPresented uint64
	FramesLate      uint64
	StallCount      uint64
	AverageFPS      float64

	Warmup stats.WarmupReport
}

// DumpState reports the engine's diagnostic snapshot: buffer
// occupancies, timing parameters, the error message (if any), and
// five-number summaries of the decode, wasted, blit, pacing-wait, and
// frame-total vectors plus average FPS and the supplemental warm-up
// stability report. The refill-timing samples are not summarized.
func (e *Engine) DumpState() State {
	s := e.stats
	warmupN := e.cfg.WarmupFrames
	if warmupN > len(s.FrameTotals) {
		warmupN = len(s.FrameTotals)
	}
	return State{
		FileOpen:        e.fileOpen,
		ChainSize:       e.chainSize,
		QueueCapacity:   e.queueCap,
		QueueLen:        e.queueLen,
		LastBlitTicks:   e.lastBlit,
		TimingR:         e.vol.R,
		TimingFixed:     e.vol.Fixed,
		TimingIncrement: e.vol.Inc,
		Failed:          e.failed,
		ErrorMessage:    e.message,
		DecodeI:         stats.SummarizeUnsigned(s.DecodeI),
		DecodeP:         stats.SummarizeUnsigned(s.DecodeP),
		DecodeB:         stats.SummarizeUnsigned(s.DecodeB),
		DecodeS:         stats.SummarizeUnsigned(s.DecodeS),
		Wasted:          stats.SummarizeUnsigned(s.Wasted),
		Blit:            stats.SummarizeUnsigned(s.Blit),
		PacingWaits:     stats.SummarizeSigned(s.PacingWaits),
		FrameTotals:     stats.SummarizeUnsigned(s.FrameTotals),
		FramesPresented: s.FramesPresented,
		FramesLate:      s.FramesLate,
		StallCount:      s.StallCount,
		AverageFPS:      s.AverageFPS(),
		Warmup:          stats.CalculateWarmup(s.FrameTotals[:warmupN]),
	}
}

// New validates cfg and constructs an Engine. newDec supplies the
// decoder implementation (production builds plug in the real cgo
// wrapper; tests pass fake.New).
func New(cfg playconfig.Config, newDec func() decoder.Decoder) (*Engine, error) {
	if err := playconfig.Validate(&cfg); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	return &Engine{
		cfg:    cfg,
		log:    slog.Default().With("run_id", id),
		runID:  id,
		newDec: newDec,
		stats:  stats.NewCollector(),
	}, nil
}

// Play decodes and presents path to the configured LCD surface,
// running until end of stream, user cancellation, or a fatal error
// (spec.md §4.8's terminal states).
func (e *Engine) Play(ctx context.Context, path string) error {
	e.log.Info("play starting", "path", path)

	f, err := os.Open(path)
	if err != nil {
		e.fail(err.Error())
		return fmt.Errorf("%w: %v", playerr.ErrIO, err)
	}
	e.fileOpen = true
	defer func() {
		f.Close()
		e.fileOpen = false
	}()

	e.sramScratch = make([]byte, sramScratchSize)
	e.sramScratchCopy = append([]byte(nil), e.sramScratch...)

	dev := e.newDec()
	if err := dev.GlobalInit(e.sramScratch); err != nil {
		e.fail(err.Error())
		return fmt.Errorf("%w: decoder global init failed: %v", playerr.ErrResourceExhausted, err)
	}
	defer func() {
		copy(e.sramScratch, e.sramScratchCopy)
		_ = dev.Close()
	}()

	lcdCfg := e.cfg.LCDConfig()
	n := lcdCfg.RequiredChainSize()

	buffers, err := e.allocateFrameBuffers(lcdCfg, n)
	if err != nil {
		e.fail(err.Error())
		return err
	}

	chain := swapchain.New(buffers)
	queue := inflight.New[*lcd.FrameBuffer](n)
	input := inputbuffer.New(f, tickFunc())
	e.chainSize = n
	e.queueCap = n

	if _, _, err := input.Fill(inputbuffer.Capacity); err != nil {
		e.fail(err.Error())
		return fmt.Errorf("%w: initial read failed: %v", playerr.ErrIO, err)
	}

	vol := volparser.ParseFromStream(input.Window())
	if !vol.OK {
		e.fail("VOL header parse failed")
		return fmt.Errorf("%w: no valid VOL header at stream start", playerr.ErrBitstream)
	}
	e.vol = vol
	if err := e.checkGeometry(vol, lcdCfg); err != nil {
		e.fail(err.Error())
		return err
	}

	hostDev := lcd.NewHostDevice()
	surface, err := lcd.New(hostDev, lcdCfg)
	if err != nil {
		e.fail(err.Error())
		return err
	}
	if err := surface.Init(lcd.ModeRGB565, 0); err != nil {
		e.fail(err.Error())
		return err
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			e.log.Warn("lcd cleanup failed", "error", cerr)
		}
	}()

	td := timer.NewSoftDevice()
	td.Configure(timer.EngineConfig())
	td.SetLoad(0xFFFFFFFF)
	td.Start()

	pump := &decoder.Pump[*lcd.FrameBuffer]{
		Chain:       chain,
		Queue:       queue,
		Input:       input,
		Dec:         dev,
		Stats:       e.stats,
		Tick:        td.Current,
		Plane:       func(f *lcd.FrameBuffer) ([]byte, int) { return f.Data, f.Stride },
		Colourspace: e.colourspace(),
		Flags:       e.decoderFlags(),
		VOL:         vol,
	}
	if err := pump.FillUntilFull(); err != nil {
		e.fail(err.Error())
		return err
	}

	cancel := cancelkey.NewPoller()
	if err := cancel.Start(); err != nil {
		e.log.Warn("cancel-key raw mode unavailable, cancellation disabled", "error", err)
	}
	defer cancel.Stop()

	loop := &pacing.Loop[*lcd.FrameBuffer]{
		Chain:   chain,
		Queue:   queue,
		Pump:    pump,
		Input:   input,
		Surface: surface,
		Timer:   td,
		Cancel:  cancel,
		Stats:   e.stats,
		Ctx:     ctx,
		ToFB:    func(f *lcd.FrameBuffer) *lcd.FrameBuffer { return f },
		Cfg: pacing.Config{
			R:                   vol.R,
			FixedRate:           vol.Fixed,
			FixedIncrement:      vol.Inc,
			Benchmark:           e.cfg.Benchmark,
			BlitDuringBenchmark: e.cfg.BlitDuringBenchmark,
		},
	}

	runErr := loop.Run()
	e.queueLen = queue.Len()
	e.lastBlit = loop.LastBlit()
	if runErr != nil {
		e.fail(runErr.Error())
		return runErr
	}

	e.log.Info("play finished", "frames_presented", e.stats.FramesPresented, "frames_late", e.stats.FramesLate)
	return nil
}

func (e *Engine) allocateFrameBuffers(cfg lcd.Config, n int) ([]*lcd.FrameBuffer, error) {
	bpp := 2
	if cfg.Variant() == lcd.VariantOwned24 {
		bpp = 4
	}
	size := cfg.Width * cfg.Height * bpp
	stride := cfg.Width * bpp

	buffers := make([]*lcd.FrameBuffer, n)
	for i := range buffers {
		block, err := alignedalloc.Alloc(64, size)
		if err != nil {
			return nil, fmt.Errorf("%w: frame buffer %d: %v", playerr.ErrResourceExhausted, i, err)
		}
		buffers[i] = &lcd.FrameBuffer{
			Variant: cfg.Variant(),
			Data:    block.Data,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Stride:  stride,
		}
	}
	return buffers, nil
}

func (e *Engine) checkGeometry(vol volparser.Info, cfg lcd.Config) error {
	wantW, wantH := cfg.Width, cfg.Height
	if cfg.PreRotatedVideo {
		wantW, wantH = cfg.Height, cfg.Width
	}
	if vol.Width == 0 || vol.Height == 0 {
		return nil // shape != 0 streams don't carry geometry; nothing to check
	}
	if vol.Width != wantW || vol.Height != wantH {
		return fmt.Errorf("%w: stream is %dx%d, screen wants %dx%d", playerr.ErrGeometryMismatch, vol.Width, vol.Height, wantW, wantH)
	}
	return nil
}

func (e *Engine) colourspace() decoder.Colourspace {
	if e.cfg.Benchmark && !e.cfg.BlitDuringBenchmark {
		return decoder.ColourspaceYUVInternal
	}
	if e.cfg.Use24BitRGB {
		return decoder.ColourspaceRGB888
	}
	return decoder.ColourspaceRGB565
}

func (e *Engine) decoderFlags() decoder.Flags {
	return decoder.Flags{
		FastDecode:    e.cfg.FastDecode,
		LowDelay:      e.cfg.LowDelay,
		DeblockLuma:   e.cfg.DeblockLuma,
		DeblockChroma: e.cfg.DeblockChroma,
		DeringLuma:    e.cfg.DeringLuma,
		DeringChroma:  e.cfg.DeringChroma,
	}
}

func (e *Engine) fail(msg string) {
	e.failed = true
	e.message = msg
	e.log.Error("play failed", "message", msg)
}

func tickFunc() func() uint32 {
	// The file-input buffer needs its own tick source for refill timing
	// before the engine's timer.Device exists; a throwaway SoftDevice
	// gives it one with negligible overhead.
	d := timer.NewSoftDevice()
	d.Start()
	return d.Current
}
