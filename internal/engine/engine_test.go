package engine_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/handheld-labs/m4vplay/internal/decoder"
	"github.com/handheld-labs/m4vplay/internal/decoder/fake"
	"github.com/handheld-labs/m4vplay/internal/engine"
	"github.com/handheld-labs/m4vplay/internal/playconfig"
	"github.com/handheld-labs/m4vplay/internal/playerr"
)

// volHeader is a hand-assembled VOL start code (00 00 01 20) followed by
// a minimal header bitstream: video_object_type_indication=1,
// is_object_layer_identifier=0, aspect_ratio_info=1,
// vol_control_parameters=0, shape=1 (binary, so no coded width/height
// follows and the engine's geometry check is a no-op), R=30,
// fixed_vop_rate=0.
func volHeader() []byte {
	return []byte{0x00, 0x00, 0x01, 0x20, 0x00, 0x84, 0x80, 0x07, 0x80}
}

func writeTestStream(t *testing.T, body []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stream-*.m4v")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(append(volHeader(), body...)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return f.Name()
}

func benchmarkConfig() playconfig.Config {
	cfg := playconfig.Default()
	cfg.Benchmark = true
	cfg.ScreenWidth = 8
	cfg.ScreenHeight = 8
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := playconfig.Default()
	cfg.LCDBlitAPI = true // conflicts with the default MagicFramebuffer
	if _, err := engine.New(cfg, nil); !errors.Is(err, playerr.ErrConfig) {
		t.Fatalf("New() = %v, want ErrConfig", err)
	}
}

func TestPlayRunsToCompletionOnEOF(t *testing.T) {
	steps := []fake.Step{
		{Consumed: 10, Type: decoder.TypeI, Base: 0, Inc: 1},
		{Consumed: 10, Type: decoder.TypeP, Base: 0, Inc: 2},
		{Consumed: 0, Type: decoder.TypeI},
	}
	// Total file length (9-byte VOL header + 11-byte body = 20) is chosen
	// to exactly match the sum of the two successful steps' Consumed
	// values, so avail reaches precisely 0 the moment the terminal
	// zero-consumed step forces a refill that hits end of stream — see
	// the fake.Decoder doc note on its "repeat forever" tail.
	path := writeTestStream(t, bytes.Repeat([]byte{0xAA}, 11))

	cfg := benchmarkConfig()
	e, err := engine.New(cfg, func() decoder.Decoder { return fake.New(steps, 0xFF) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Play(context.Background(), path); err != nil {
		t.Fatalf("Play: %v", err)
	}
}

func TestDumpStateAfterSuccessfulPlay(t *testing.T) {
	steps := []fake.Step{
		{Consumed: 10, Type: decoder.TypeI, Base: 0, Inc: 1},
		{Consumed: 10, Type: decoder.TypeP, Base: 0, Inc: 2},
		{Consumed: 0, Type: decoder.TypeI},
	}
	path := writeTestStream(t, bytes.Repeat([]byte{0xAA}, 11))

	cfg := benchmarkConfig()
	e, err := engine.New(cfg, func() decoder.Decoder { return fake.New(steps, 0xFF) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Play(context.Background(), path); err != nil {
		t.Fatalf("Play: %v", err)
	}

	st := e.DumpState()
	if st.FileOpen {
		t.Fatalf("DumpState().FileOpen = true after Play returned, want false")
	}
	if st.Failed {
		t.Fatalf("DumpState().Failed = true, want false: %s", st.ErrorMessage)
	}
	if st.ChainSize != 1 || st.QueueCapacity != 1 {
		t.Fatalf("ChainSize/QueueCapacity = %d/%d, want 1/1 (magic framebuffer default)", st.ChainSize, st.QueueCapacity)
	}
	if st.QueueLen != 0 {
		t.Fatalf("QueueLen = %d after clean end of stream, want 0", st.QueueLen)
	}
	if st.FramesPresented != 2 {
		t.Fatalf("FramesPresented = %d, want 2", st.FramesPresented)
	}
	if st.DecodeI.N != 1 || st.DecodeP.N != 1 {
		t.Fatalf("DecodeI.N/DecodeP.N = %d/%d, want 1/1", st.DecodeI.N, st.DecodeP.N)
	}
	if st.TimingR != 30 {
		t.Fatalf("TimingR = %d, want 30 (from the hand-assembled VOL header)", st.TimingR)
	}
}

func TestPlayReturnsIOErrorOnMissingFile(t *testing.T) {
	cfg := benchmarkConfig()
	e, err := engine.New(cfg, func() decoder.Decoder { return fake.New(nil, 0xFF) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Play(context.Background(), "/nonexistent/path.m4v"); !errors.Is(err, playerr.ErrIO) {
		t.Fatalf("Play() = %v, want ErrIO", err)
	}
}

func TestPlayReportsBitstreamErrorOnMissingVOL(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "novol-*.m4v")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.Write(bytes.Repeat([]byte{0x11}, 64)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	cfg := benchmarkConfig()
	e, err := engine.New(cfg, func() decoder.Decoder { return fake.New(nil, 0xFF) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Play(context.Background(), f.Name()); !errors.Is(err, playerr.ErrBitstream) {
		t.Fatalf("Play() = %v, want ErrBitstream", err)
	}
}
