package imaging

import (
	"encoding/base64"
	"image"

	"golang.org/x/image/draw"
)

// hashEdge is the side of the grayscale thumbnail the hash is computed
// over: 8x8 = 64 bits.
const hashEdge = 8

// PerceptualHash computes a mean-based 64-bit perceptual hash of img:
// shrink to 8x8 grayscale, compare each pixel to the mean luminance, and
// pack the 64 above/below-mean bits into a base64 string (no padding).
// Two images are "the same image" iff their hashes are byte-equal.
func PerceptualHash(img image.Image) string {
	small := image.NewGray(image.Rect(0, 0, hashEdge, hashEdge))
	draw.BiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	var sum int
	pixels := make([]uint8, hashEdge*hashEdge)
	for y := 0; y < hashEdge; y++ {
		for x := 0; x < hashEdge; x++ {
			g := small.GrayAt(x, y).Y
			pixels[y*hashEdge+x] = g
			sum += int(g)
		}
	}
	mean := sum / (hashEdge * hashEdge)

	var bits uint64
	for i, p := range pixels {
		if int(p) >= mean {
			bits |= 1 << uint(63-i)
		}
	}

	var raw [8]byte
	for i := 0; i < 8; i++ {
		raw[i] = byte(bits >> uint(56-8*i))
	}
	return base64.RawStdEncoding.EncodeToString(raw[:])
}
