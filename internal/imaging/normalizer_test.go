package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
)

// noisyImage produces an image that compresses poorly
func noisyImage(w, h int) image.Image {
	rnd := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeScalesDownLongEdge(t *testing.T) {
	n := NewNormalizer(0)
	raw := encodePNG(t, noisyImage(2560, 1440))

	out := n.Normalize(raw)
	decoded, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() > DefaultMaxDimension || b.Dy() > DefaultMaxDimension {
		t.Fatalf("longer edge not bounded: %dx%d", b.Dx(), b.Dy())
	}
	// aspect ratio roughly preserved
	if b.Dx() != DefaultMaxDimension {
		t.Fatalf("expected width %d, got %d", DefaultMaxDimension, b.Dx())
	}
}

func TestNormalizeNeverUpscales(t *testing.T) {
	n := NewNormalizer(0)
	raw := encodePNG(t, noisyImage(320, 200))

	out := n.Normalize(raw)
	decoded, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 320 || b.Dy() != 200 {
		t.Fatalf("small image was resized to %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeTerminates(t *testing.T) {
	n := NewNormalizer(0)
	raw := encodePNG(t, noisyImage(1280, 1280))

	// noisy input may never fit the budget; the quality floor still
	// guarantees a result comes back
	out := n.Normalize(raw)
	if len(out) == 0 {
		t.Fatal("expected an encoded image")
	}
}

func TestNormalizeSmallImageFitsBudget(t *testing.T) {
	n := NewNormalizer(0)
	img := imaging.New(400, 300, color.NRGBA{R: 40, G: 90, B: 160, A: 255})
	raw := encodePNG(t, img)

	out := n.Normalize(raw)
	if len(out) > ByteBudget {
		t.Fatalf("flat image should fit the budget, got %d bytes", len(out))
	}
}

func TestNormalizeDecodeFailureReturnsOriginal(t *testing.T) {
	n := NewNormalizer(0)
	raw := []byte("definitely not an image")

	out := n.Normalize(raw)
	if !bytes.Equal(out, raw) {
		t.Fatal("expected the original bytes back on decode failure")
	}
}

func TestNewNormalizerClampsDimension(t *testing.T) {
	if n := NewNormalizer(100); n.maxDimension != minMaxDimension {
		t.Fatalf("expected clamp to %d, got %d", minMaxDimension, n.maxDimension)
	}
	if n := NewNormalizer(5000); n.maxDimension != DefaultMaxDimension {
		t.Fatalf("expected clamp to %d, got %d", DefaultMaxDimension, n.maxDimension)
	}
	if n := NewNormalizer(1100); n.maxDimension != 1100 {
		t.Fatalf("expected 1100, got %d", n.maxDimension)
	}
}

func TestNormalizeBatch(t *testing.T) {
	n := NewNormalizer(0)
	batch := [][]byte{
		encodePNG(t, noisyImage(1600, 900)),
		encodePNG(t, noisyImage(300, 300)),
		[]byte("broken capture"),
	}

	out := n.NormalizeBatch(batch)
	if len(out) != len(batch) {
		t.Fatalf("expected %d results, got %d", len(batch), len(out))
	}
	for i, encoded := range out {
		if len(encoded) == 0 {
			t.Fatalf("result %d is empty", i)
		}
	}
}
