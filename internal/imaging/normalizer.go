// Package imaging bounds every captured photo to a storable size before
// it is attached to an inspection, a checklist item or an NCR.
package imaging

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// DefaultMaxDimension longest-edge bound in pixels
	DefaultMaxDimension = 1280
	minMaxDimension     = 1000

	// ByteBudget target encoded size
	ByteBudget = 100 * 1024

	startQuality = 70
	qualityStep  = 10
	qualityFloor = 10
)

// Normalizer re-encodes raw captures into size-bounded JPEGs
type Normalizer struct {
	maxDimension int
}

// NewNormalizer clamps maxDimension into the supported range;
// zero picks the default
func NewNormalizer(maxDimension int) *Normalizer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if maxDimension < minMaxDimension {
		maxDimension = minMaxDimension
	}
	if maxDimension > DefaultMaxDimension {
		maxDimension = DefaultMaxDimension
	}
	return &Normalizer{maxDimension: maxDimension}
}

// Normalize scales the longer edge down to the bound (never up) and
// re-encodes at decreasing quality until the result fits the byte
// budget or the quality floor is reached. The floor wins over the
// budget, so an image always comes back. A raw input that does not
// decode is returned unchanged rather than dropped.
func (n *Normalizer) Normalize(raw []byte) []byte {
	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return raw
	}

	src = n.fit(src)

	var encoded []byte
	for quality := startQuality; quality >= qualityFloor; quality -= qualityStep {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return raw
		}
		encoded = buf.Bytes()
		if len(encoded) <= ByteBudget {
			return encoded
		}
	}
	return encoded
}

func (n *Normalizer) fit(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= n.maxDimension && h <= n.maxDimension {
		return src
	}
	if w >= h {
		return imaging.Resize(src, n.maxDimension, 0, imaging.Lanczos)
	}
	return imaging.Resize(src, 0, n.maxDimension, imaging.Lanczos)
}
