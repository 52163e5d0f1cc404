package playconfig

import (
	"fmt"

	"github.com/handheld-labs/m4vplay/internal/lcd"
	"github.com/handheld-labs/m4vplay/internal/playerr"
)

// Validate checks the mutually-exclusive presentation-path combinations
// of spec.md §4.9 and §8's "Idempotent config" invariant: an invalid
// config must fail here, before any frame buffer is allocated.
func Validate(cfg *Config) error {
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen dimensions must be positive, got %dx%d", playerr.ErrConfig, cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.WarmupFrames < 0 {
		return fmt.Errorf("%w: warmup_frames must be >= 0", playerr.ErrConfig)
	}

	lcdCfg := lcd.Config{
		Width:            cfg.ScreenWidth,
		Height:           cfg.ScreenHeight,
		Use24BitRGB:      cfg.Use24BitRGB,
		MagicFramebuffer: cfg.MagicFramebuffer,
		LCDBlitAPI:       cfg.LCDBlitAPI,
		PreRotatedVideo:  cfg.PreRotatedVideo,
	}
	if err := lcdCfg.Validate(); err != nil {
		return err
	}

	if cfg.WarmupFrames == 0 {
		cfg.WarmupFrames = 8
	}
	return nil
}

// LCDConfig projects Config onto the lcd package's Config type.
func (c Config) LCDConfig() lcd.Config {
	return lcd.Config{
		Width:            c.ScreenWidth,
		Height:           c.ScreenHeight,
		Use24BitRGB:      c.Use24BitRGB,
		MagicFramebuffer: c.MagicFramebuffer,
		LCDBlitAPI:       c.LCDBlitAPI,
		PreRotatedVideo:  c.PreRotatedVideo,
	}
}
