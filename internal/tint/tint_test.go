package tint

import (
	"testing"

	"spread-stitcher/internal/config"

	"gocv.io/x/gocv"
)

func uniformPage(r, g, b uint8, rows, cols int) gocv.Mat {
	// gocv scalars are BGR ordered.
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(b), float64(g), float64(r), 0),
		rows, cols, gocv.MatTypeCV8UC3)
}

func TestSampleRecoversUniformPaper(t *testing.T) {
	cfg := config.Default().Tint

	// Warm paper: brightness inside the band, blue below green.
	page := uniformPage(210, 200, 180, 400, 300)
	defer page.Close()

	got := Sample(page, cfg)
	if got.R != 210 || got.G != 200 || got.B != 180 {
		t.Errorf("Sample = (%d,%d,%d), want (210,200,180)", got.R, got.G, got.B)
	}
}

func TestSampleAllWhiteFallsBackToDefault(t *testing.T) {
	cfg := config.Default().Tint

	page := uniformPage(255, 255, 255, 400, 300)
	defer page.Close()

	got := Sample(page, cfg)
	d := cfg.Default
	if got.R != d[0] || got.G != d[1] || got.B != d[2] {
		t.Errorf("Sample on all-white = (%d,%d,%d), want default (%d,%d,%d)",
			got.R, got.G, got.B, d[0], d[1], d[2])
	}
}

func TestSampleAllBlackFallsBackToDefault(t *testing.T) {
	cfg := config.Default().Tint

	page := uniformPage(0, 0, 0, 400, 300)
	defer page.Close()

	got := Sample(page, cfg)
	d := cfg.Default
	if got.R != d[0] || got.G != d[1] || got.B != d[2] {
		t.Errorf("Sample on all-black = (%d,%d,%d), want default", got.R, got.G, got.B)
	}
}

func TestSampleRelaxesToBrightnessOnly(t *testing.T) {
	cfg := config.Default().Tint

	// Neutral gray paper: inside the brightness band, but fails the warm
	// test (blue == green), so the hue filter must be dropped.
	page := uniformPage(200, 200, 200, 400, 300)
	defer page.Close()

	got := Sample(page, cfg)
	if got.R != 200 || got.G != 200 || got.B != 200 {
		t.Errorf("Sample on gray = (%d,%d,%d), want (200,200,200)", got.R, got.G, got.B)
	}
}

func TestSampleKeepsWarmHuesOnly(t *testing.T) {
	cfg := config.Default().Tint

	// Cool bluish page with a warm top edge: the hue filter must select
	// the warm strip alone, not average the two.
	page := uniformPage(180, 200, 210, 400, 300)
	defer page.Close()
	for y := 0; y < cfg.StripWidth; y++ {
		for x := 0; x < 300; x++ {
			page.SetUCharAt(y, x*3+0, 180) // B
			page.SetUCharAt(y, x*3+1, 200) // G
			page.SetUCharAt(y, x*3+2, 210) // R
		}
	}

	got := Sample(page, cfg)
	if got.R != 210 || got.G != 200 || got.B != 180 {
		t.Errorf("cool pixels leaked into sample: got (%d,%d,%d), want (210,200,180)",
			got.R, got.G, got.B)
	}
}

func TestSampleIgnoresInterior(t *testing.T) {
	cfg := config.Default().Tint

	// Warm edges around dark interior content: only the strips count.
	page := uniformPage(210, 200, 180, 400, 300)
	defer page.Close()
	for y := 50; y < 350; y++ {
		for x := 50; x < 250; x++ {
			for c := 0; c < 3; c++ {
				page.SetUCharAt(y, x*3+c, 10)
			}
		}
	}

	got := Sample(page, cfg)
	if got.R != 210 || got.G != 200 || got.B != 180 {
		t.Errorf("interior content leaked into sample: got (%d,%d,%d)", got.R, got.G, got.B)
	}
}
