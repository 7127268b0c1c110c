package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// maxPreviewEdge bounds the long edge of the preview image.
const maxPreviewEdge = 400

// Canonicalized is the output of running the full C2 pipeline over one
// captured image.
type Canonicalized struct {
	FullPath       string // placeholder-form path, "{{base_folder}}/..."
	PreviewPNG     []byte
	Width          int
	Height         int
	PreviewHeight  int
	PerceptualHash string
}

// Canonicalize runs the full image pipeline: de-stride, full-res PNG
// persistence, preview resize, and perceptual hashing.
// subdir is "clipboard-images" for history captures or "clip-images" for
// clip images; ext controls the full-res file's extension (history
// records are always "png"; clips may keep their original extension).
func Canonicalize(baseDir, subdir, id, ext string, raw []byte, width, height int) (*Canonicalized, error) {
	cleaned := DeStride(raw, width, height)

	img := &image.RGBA{
		Pix:    cleaned,
		Stride: width * bytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}

	if _, err := persistFull(baseDir, subdir, id, ext, img); err != nil {
		return nil, err
	}

	previewImg, previewHeight := resizeForPreview(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, previewImg); err != nil {
		return nil, fmt.Errorf("imaging: encoding preview: %w", err)
	}

	hash := PerceptualHash(previewImg)

	return &Canonicalized{
		FullPath:       placeholderPath(subdir, id, ext),
		PreviewPNG:     buf.Bytes(),
		Width:          width,
		Height:         height,
		PreviewHeight:  previewHeight,
		PerceptualHash: hash,
	}, nil
}

func placeholderPath(subdir, id, ext string) string {
	return "{{base_folder}}/" + subdir + "/" + id[:minInt(3, len(id))] + "/" + id + "." + ext
}

func persistFull(baseDir, subdir, id, ext string, img image.Image) (string, error) {
	dir := filepath.Join(baseDir, subdir, id[:minInt(3, len(id))])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("imaging: creating image dir: %w", err)
	}
	path := filepath.Join(dir, id+"."+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("imaging: creating image file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("imaging: encoding full image: %w", err)
	}
	return path, nil
}

// resizeForPreview shrinks img to fit maxPreviewEdge on its long edge
// using a triangle (bilinear) filter, preserving aspect ratio; images
// already within bounds pass through untouched.
func resizeForPreview(img image.Image) (image.Image, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxPreviewEdge {
		return img, h
	}
	newW := maxPreviewEdge
	newH := int(float64(h) * float64(maxPreviewEdge) / float64(w))
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, newH
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
