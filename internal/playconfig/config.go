// Package playconfig loads and validates PlayOptions (spec.md §6), the
// YAML-serializable configuration surface the engine is constructed
// from, the way References/orion-prototipe/internal/config splits
// loading (config.go) from validation (validator.go).
package playconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-tagged PlayOptions surface of spec.md §6. Field
// names keep the flag names the table names, translated to snake_case.
type Config struct {
	Benchmark            bool `yaml:"benchmark"`
	BlitDuringBenchmark   bool `yaml:"blit_during_benchmark"`
	FastDecode           bool `yaml:"fast_decode"`
	LowDelay             bool `yaml:"low_delay"`
	DeblockLuma          bool `yaml:"deblock_luma"`
	DeblockChroma        bool `yaml:"deblock_chroma"`
	DeringLuma           bool `yaml:"dering_luma"`
	DeringChroma         bool `yaml:"dering_chroma"`
	MagicFramebuffer     bool `yaml:"magic_framebuffer"`
	Use24BitRGB          bool `yaml:"use_24_bit_rgb"`
	LCDBlitAPI           bool `yaml:"lcd_blit_api"`
	PreRotatedVideo      bool `yaml:"pre_rotated_video"`

	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	// WarmupFrames is the supplemental warm-up window size (SPEC_FULL.md
	// §3a "WarmupReport"); 0 means use the documented default of 8.
	WarmupFrames int `yaml:"warmup_frames"`
}

// Default returns the documented default PlayOptions (spec.md §6's
// "Default" column): fast-decode, low-delay, and magic-framebuffer on,
// everything else off, at the handheld's native 320x240.
func Default() Config {
	return Config{
		FastDecode:       true,
		LowDelay:         true,
		MagicFramebuffer: true,
		ScreenWidth:      320,
		ScreenHeight:     240,
		WarmupFrames:     8,
	}
}

// Load reads and parses a YAML configuration file over the documented
// defaults, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("playconfig: failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("playconfig: failed to parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("playconfig: invalid configuration: %w", err)
	}
	return &cfg, nil
}
