// Package config holds the tunable calibration parameters for the stitching
// pipeline. The defaults were calibrated against one archive's scans; treat
// every threshold here as empirical, not semantic.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Canvas describes the fixed output spread dimensions.
type Canvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Margin is the width of paper left visible outside the thick borders.
	Margin int `yaml:"margin"`
}

// Thresholds groups the brightness cutoffs used by the border locators and
// the compositor.
type Thresholds struct {
	// DarkRow is the absolute row/column mean below which a scan line is
	// considered part of the thick black border.
	DarkRow float64 `yaml:"dark_row"`
	// DarkPixel is the per-pixel cutoff for the dark-ratio column test.
	DarkPixel uint8 `yaml:"dark_pixel"`
	// DarkRatio is the fraction of dark pixels a column needs to count as
	// the thick border.
	DarkRatio float64 `yaml:"dark_ratio"`
	// ThinLine is the column mean below which a column qualifies as the
	// thin spine guide line.
	ThinLine float64 `yaml:"thin_line"`
	// FlankBright is the mean brightness required next to a thin-line
	// candidate for it to read as a true line rather than smear.
	FlankBright float64 `yaml:"flank_bright"`
	// RelativeOffset is added to the darkest profile value when the
	// absolute threshold finds nothing.
	RelativeOffset float64 `yaml:"relative_offset"`
	// NonBackground is the compositor's cutoff: pixels at or above it are
	// treated as background and left showing the layer underneath.
	NonBackground float64 `yaml:"non_background"`
}

// Windows bounds the search regions of the border locators.
type Windows struct {
	// Row is how many rows from the top/bottom edge to search for the
	// horizontal borders.
	Row int `yaml:"row"`
	// Column is how many columns from the outer edge to search for the
	// thick border.
	Column int `yaml:"column"`
	// Thin is how many columns from the spine edge to search for the thin
	// guide line.
	Thin int `yaml:"thin"`
	// Flank is the number of neighbouring columns averaged on each side of
	// a thin-line candidate.
	Flank int `yaml:"flank"`
}

// Deskew configures rotation-angle estimation.
type Deskew struct {
	CannyLow  float32 `yaml:"canny_low"`
	CannyHigh float32 `yaml:"canny_high"`
	// HoughVotes is the accumulator threshold of the probabilistic Hough
	// transform.
	HoughVotes int `yaml:"hough_votes"`
	// MinLineLength and MaxLineGap are passed straight to the detector.
	MinLineLength int `yaml:"min_line_length"`
	MaxLineGap    int `yaml:"max_line_gap"`
	// LengthFloor discards detected segments shorter than this many pixels.
	LengthFloor float64 `yaml:"length_floor"`
	// AngleTolerance is the band around vertical, in degrees, within which
	// a segment is accepted as border evidence.
	AngleTolerance float64 `yaml:"angle_tolerance"`
	// Epsilon is the angle magnitude below which rotation is skipped
	// entirely to avoid resampling blur.
	Epsilon float64 `yaml:"epsilon"`
}

// Tint configures paper-color sampling.
type Tint struct {
	// StripWidth is the thickness of the edge strips sampled.
	StripWidth int `yaml:"strip_width"`
	// Inset skips this many pixels at the strip ends to avoid corners.
	Inset int `yaml:"inset"`
	// BrightLow/BrightHigh bound the open brightness interval that keeps a
	// pixel: above the black border, below paper glare.
	BrightLow  float64 `yaml:"bright_low"`
	BrightHigh float64 `yaml:"bright_high"`
	// Default is the fallback paper color (RGB) when no pixel passes.
	Default [3]uint8 `yaml:"default"`
}

// Spine describes the template asset's fixed, externally documented geometry.
type Spine struct {
	Path string `yaml:"path"`
	// UnscaledWidth/UnscaledHeight are the raw template dimensions.
	UnscaledWidth  int `yaml:"unscaled_width"`
	UnscaledHeight int `yaml:"unscaled_height"`
	// LeftGuideX/RightGuideX are the thin guide-line columns in unscaled
	// template space.
	LeftGuideX  int `yaml:"left_guide_x"`
	RightGuideX int `yaml:"right_guide_x"`
}

// Config is the full parameter set for a stitching run.
type Config struct {
	Canvas     Canvas     `yaml:"canvas"`
	Thresholds Thresholds `yaml:"thresholds"`
	Windows    Windows    `yaml:"windows"`
	Deskew     Deskew     `yaml:"deskew"`
	Tint       Tint       `yaml:"tint"`
	Spine      Spine      `yaml:"spine"`
	// Workers is the batch pool size; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the parameter set calibrated against the source archive.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:  2333,
			Height: 1596,
			Margin: 8,
		},
		Thresholds: Thresholds{
			DarkRow:        130,
			DarkPixel:      80,
			DarkRatio:      0.3,
			ThinLine:       145,
			FlankBright:    160,
			RelativeOffset: 20,
			NonBackground:  245,
		},
		Windows: Windows{
			Row:    150,
			Column: 100,
			Thin:   60,
			Flank:  5,
		},
		Deskew: Deskew{
			CannyLow:       50,
			CannyHigh:      150,
			HoughVotes:     100,
			MinLineLength:  100,
			MaxLineGap:     10,
			LengthFloor:    200,
			AngleTolerance: 15,
			Epsilon:        0.05,
		},
		Tint: Tint{
			StripWidth: 5,
			Inset:      20,
			BrightLow:  180,
			BrightHigh: 245,
			Default:    [3]uint8{210, 200, 180},
		},
		Spine: Spine{
			Path:           "spine_padded.png",
			UnscaledWidth:  51,
			UnscaledHeight: 587,
			LeftGuideX:     4,
			RightGuideX:    47,
		},
	}
}

// Load reads a YAML file and overlays it onto the defaults, so partial files
// only override the keys they mention.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
