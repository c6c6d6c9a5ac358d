package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func TestTexture_SampleNearest(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, white)
	img.SetNRGBA(0, 1, white)
	img.SetNRGBA(1, 1, red)
	tex := New(img)

	tests := []struct {
		u, v float32
		want mgl32.Vec4
	}{
		{0, 0, mgl32.Vec4{1, 0, 0, 1}},
		{0.99, 0, mgl32.Vec4{1, 0, 0, 1}},
		{0.5, 0.99, mgl32.Vec4{1, 0, 0, 1}},
		// Wrapped: 1.25 samples like 0.25, -0.75 like 0.25.
		{1.25, 0, mgl32.Vec4{1, 0, 0, 1}},
		{-0.75, 0, mgl32.Vec4{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		if got := tex.Sample(tt.u, tt.v); got != tt.want {
			t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}

	// u*(w-1) truncates, so the last column is only reached at u == 1,
	// which wraps to 0.
	wide := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	wide.SetNRGBA(2, 0, white)
	if got := New(wide).Sample(0.999999, 0)[0]; got != 0 {
		t.Errorf("Sample(0.999999, 0).R = %v, want 0", got)
	}
}

func TestTexture_SampleBilinear(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 200, 200, 255})
	img.SetNRGBA(2, 0, color.NRGBA{200, 200, 200, 255})
	tex := New(img)
	tex.Filter = Bilinear

	got := tex.Sample(0.25, 0)
	if want := float32(100) / 255; abs(got[0]-want) > 1e-6 {
		t.Errorf("bilinear Sample(0.25, 0).R = %v, want %v", got[0], want)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
		ok   bool
	}{
		{"", Nearest, true},
		{"nearest", Nearest, true},
		{"Bilinear", Bilinear, true},
		{"trilinear", Nearest, false},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, %v; want %v, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestTexture_WithFilter(t *testing.T) {
	tex := Checker(4, 2, color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})
	b := tex.WithFilter(Bilinear)
	if b.Filter != Bilinear || tex.Filter != Nearest {
		t.Errorf("WithFilter: copy %v, original %v", b.Filter, tex.Filter)
	}
	if b.Image() != tex.Image() {
		t.Error("WithFilter copied the image")
	}
}

func TestTexture_Empty(t *testing.T) {
	tex := New(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if got := tex.Sample(0.5, 0.5); got != (mgl32.Vec4{}) {
		t.Errorf("Sample on empty texture = %v, want zero", got)
	}
	if got := AverageColor(tex); got != (color.NRGBA{160, 160, 170, 255}) {
		t.Errorf("AverageColor(empty) = %v", got)
	}
}

func TestChecker(t *testing.T) {
	tex := Checker(8, 2, red, white)
	if tex.Width() != 8 || tex.Height() != 8 {
		t.Fatalf("Checker size = %dx%d, want 8x8", tex.Width(), tex.Height())
	}
	img := tex.Image()
	if got := img.NRGBAAt(0, 0); got != red {
		t.Errorf("cell (0,0) = %v, want red", got)
	}
	if got := img.NRGBAAt(4, 0); got != white {
		t.Errorf("cell (1,0) = %v, want white", got)
	}
	if got := img.NRGBAAt(4, 4); got != red {
		t.Errorf("cell (1,1) = %v, want red", got)
	}

	avg := AverageColor(tex)
	if avg != (color.NRGBA{255, 128, 128, 255}) {
		t.Errorf("AverageColor(checker) = %v, want {255 128 128 255}", avg)
	}
}

func TestToNRGBA_RebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.RGBA{10, 20, 30, 255})
	tex := New(src)
	if tex.Width() != 2 || tex.Height() != 1 {
		t.Fatalf("size = %dx%d, want 2x1", tex.Width(), tex.Height())
	}
	if got := tex.Image().NRGBAAt(0, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
}

func writeImage(t *testing.T, path string, enc func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func encodePNG(f *os.File, img image.Image) error  { return png.Encode(f, img) }
func encodeBMP(f *os.File, img image.Image) error  { return bmp.Encode(f, img) }
func encodeTGA(f *os.File, img image.Image) error  { return tga.Encode(f, img) }
func encodeWebP(f *os.File, img image.Image) error { return nativewebp.Encode(f, img, nil) }

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		enc  func(*os.File, image.Image) error
	}{
		{"a.png", encodePNG},
		{"b.bmp", encodeBMP},
		{"c.tga", encodeTGA},
		{"d.webp", encodeWebP},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		writeImage(t, path, tt.enc)
		tex, err := Load(path)
		if err != nil {
			t.Errorf("Load(%s) error = %v", tt.name, err)
			continue
		}
		if tex.Width() != 4 || tex.Height() != 4 {
			t.Errorf("Load(%s) size = %dx%d, want 4x4", tt.name, tex.Width(), tex.Height())
		}
		if got := tex.Sample(0.5, 0.5); got != (mgl32.Vec4{1, 1, 1, 1}) {
			t.Errorf("Load(%s) Sample = %v, want white", tt.name, got)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
	if _, err := Load(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Load(notes.txt) succeeded")
	}
}

func TestIndex_PriorityAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "wood.bmp"), encodeBMP)
	writeImage(t, filepath.Join(dir, "sub", "Wood.png"), encodePNG)
	writeImage(t, filepath.Join(dir, "sub", "stone.tga"), encodeTGA)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := BuildIndex(dir)
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
	if got := idx.Names(); len(got) != 2 || got[0] != "stone" || got[1] != "wood" {
		t.Errorf("Names() = %v, want [stone wood]", got)
	}

	path, ok := idx.ResolvePath(`models\textures\WOOD.jpg`)
	if !ok {
		t.Fatal("ResolvePath(WOOD.jpg) not found")
	}
	if filepath.Ext(path) != ".png" {
		t.Errorf("ResolvePath(wood) = %s, want the png", path)
	}
	if _, ok := idx.ResolvePath("brick"); ok {
		t.Error("ResolvePath(brick) found")
	}
}

func TestCache_Resolve(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "wood.png"), encodePNG)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	got := make([]*Texture, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Resolve("wood")
		}(i)
	}
	wg.Wait()
	for i, tex := range got {
		if tex == nil {
			t.Fatalf("Resolve #%d = nil", i)
		}
		if tex != got[0] {
			t.Errorf("Resolve #%d returned a different texture", i)
		}
	}

	if tex := c.Resolve("broken"); tex != nil {
		t.Error("Resolve(broken) != nil")
	}
	if tex := c.Resolve("missing"); tex != nil {
		t.Error("Resolve(missing) != nil")
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
