package compose

import (
	"image"
	"image/color"
	"testing"

	"spread-stitcher/internal/config"
	"spread-stitcher/internal/register"
	"spread-stitcher/internal/spine"

	"gocv.io/x/gocv"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Canvas.Width = 400
	cfg.Canvas.Height = 300
	return cfg
}

func newTemplate(t *testing.T, cfg config.Config, paper color.RGBA) *spine.Template {
	t.Helper()
	raw := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0),
		cfg.Spine.UnscaledHeight, cfg.Spine.UnscaledWidth, gocv.MatTypeCV8UC3)
	defer raw.Close()
	tpl := spine.New(raw, paper, cfg)
	t.Cleanup(tpl.Close)
	return tpl
}

func TestCanvasStartsWhite(t *testing.T) {
	cfg := testConfig()
	c := NewCanvas(cfg)
	defer c.Close()

	m := c.Mat()
	if m.Rows() != 300 || m.Cols() != 400 {
		t.Fatalf("canvas dims = %dx%d, want 400x300", m.Cols(), m.Rows())
	}
	if m.GetUCharAt(0, 0) != 255 || m.GetUCharAt(299, 399*3+2) != 255 {
		t.Error("canvas not initialized to white")
	}
}

func TestTemplateIsBackgroundLayer(t *testing.T) {
	cfg := testConfig()
	paper := color.RGBA{R: 210, G: 200, B: 180, A: 255}
	tpl := newTemplate(t, cfg, paper)

	c := NewCanvas(cfg)
	defer c.Close()
	c.PlaceTemplate(tpl)

	m := c.Mat()
	centerX := cfg.Canvas.Width / 2
	b := m.GetUCharAt(150, centerX*3+0)
	g := m.GetUCharAt(150, centerX*3+1)
	if int(b) >= int(g) {
		t.Errorf("canvas center (b=%d g=%d) does not show the tinted template", b, g)
	}

	// Outside the strip the canvas is untouched.
	if m.GetUCharAt(150, 2*3+0) != 255 {
		t.Error("template leaked outside its strip")
	}
}

func TestMaskPreservesBackground(t *testing.T) {
	cfg := testConfig()
	paper := color.RGBA{R: 210, G: 200, B: 180, A: 255}
	tpl := newTemplate(t, cfg, paper)

	c := NewCanvas(cfg)
	defer c.Close()
	c.PlaceTemplate(tpl)

	// A page that is white except one inked pixel, placed over the strip.
	page := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 40, 40, gocv.MatTypeCV8UC3)
	defer page.Close()
	for ch := 0; ch < 3; ch++ {
		page.SetUCharAt(20, 20*3+ch, 0)
	}

	startX := (cfg.Canvas.Width - tpl.Width()) / 2
	p := register.Placement{
		ScaleX:  1,
		ScaleY:  1,
		OffsetX: startX,
		OffsetY: 100,
		SrcRect: image.Rect(0, 0, 40, 40),
	}
	c.PlacePage(page, p)

	m := c.Mat()
	// The inked pixel covers the template.
	if m.GetUCharAt(120, (startX+20)*3+0) != 0 {
		t.Error("inked pixel not painted")
	}
	// Its white neighbourhood keeps the tinted template value exactly.
	wantB := m.GetUCharAt(180, (startX+20)*3+0)
	if got := m.GetUCharAt(125, (startX+20)*3+0); got != wantB {
		t.Errorf("background pixel overwritten: %d != template %d", got, wantB)
	}
}

func TestOutOfCanvasPlacementClips(t *testing.T) {
	cfg := testConfig()

	c := NewCanvas(cfg)
	defer c.Close()

	page := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer page.Close()

	// Mostly outside the canvas on two edges; must clip, not panic.
	p := register.Placement{
		ScaleX:  1,
		ScaleY:  1,
		OffsetX: -30,
		OffsetY: cfg.Canvas.Height - 10,
		SrcRect: image.Rect(0, 0, 50, 50),
	}
	c.PlacePage(page, p)

	m := c.Mat()
	if m.GetUCharAt(cfg.Canvas.Height-5, 10*3+0) != 0 {
		t.Error("in-bounds part of the clipped page not painted")
	}
}

func TestDegenerateScaleSkipsQuietly(t *testing.T) {
	cfg := testConfig()
	c := NewCanvas(cfg)
	defer c.Close()

	page := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC3)
	defer page.Close()

	p := register.Placement{
		ScaleX:  0,
		ScaleY:  1,
		SrcRect: image.Rect(0, 0, 50, 50),
	}
	c.PlacePage(page, p) // must not panic on a zero-width resize
}
