package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for poster images.
//
// Example usage:
//
//	svc := NewImageService()
//	img, err := svc.Decode(ctx, posterBytes)
//	small := svc.FitWidth(img, 40)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Decode decodes JPEG or PNG image data.
func (s *ImageService) Decode(ctx context.Context, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// FitWidth scales img to the given width, preserving the aspect ratio.
//
// heightScale is applied to the computed height; terminal cells are about
// twice as tall as they are wide, so callers rendering one pixel per half
// cell pass 1.0 and callers rendering one pixel per cell pass 0.5.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
func (s *ImageService) FitWidth(img image.Image, width int, heightScale float64) *image.RGBA {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() == 0 {
		width = bounds.Dx()
	}

	ratio := float64(bounds.Dy()) / float64(bounds.Dx())
	height := int(float64(width) * ratio * heightScale)
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}
