package service

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/mdriyaz-a/captionflow/internal/imaging"
)

// FallbackDescription is the terminal description for images nothing could
// analyze. Callers of the pipeline always see a non-empty description.
const FallbackDescription = "a beautiful image uploaded by the user"

// Describer turns a stored image into a natural-language description.
type Describer interface {
	Describe(ctx context.Context, imagePath string) (string, error)
}

// HeuristicDescriber derives a description from raw pixel properties: aspect
// ratio, a coarse dominant-color bucket and the resolution tier. It is a pure
// function of the pixel content and cannot fail on a decodable image.
type HeuristicDescriber struct{}

func NewHeuristicDescriber() *HeuristicDescriber {
	return &HeuristicDescriber{}
}

func (d *HeuristicDescriber) Describe(ctx context.Context, imagePath string) (string, error) {
	img, format, err := imaging.Decode(imagePath)
	if err != nil {
		return "", err
	}
	return describeImage(img, format), nil
}

func describeImage(img image.Image, format string) string {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	colorDesc := dominantColorBucket(img)
	shapeDesc := shapeFromAspect(width, height)

	description := fmt.Sprintf("A %s %s image", colorDesc, shapeDesc)
	if format != "" {
		description += fmt.Sprintf(" in %s format", strings.ToUpper(format))
	}
	if width > 1000 || height > 1000 {
		description += fmt.Sprintf(" with high resolution (%dx%d)", width, height)
	} else {
		description += fmt.Sprintf(" with resolution %dx%d", width, height)
	}
	return description
}

func shapeFromAspect(width, height int) string {
	ratio := float64(width) / float64(height)
	switch {
	case ratio >= 0.9 && ratio <= 1.1:
		return "square"
	case ratio > 1.1:
		return "landscape"
	default:
		return "portrait"
	}
}

// dominantColorBucket classifies the average color of a reduced sample grid
// into a small set of named buckets. Sampling a fixed grid keeps the cost
// independent of resolution.
func dominantColorBucket(img image.Image) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "colorful"
	}

	const grid = 32
	stepX := b.Dx() / grid
	stepY := b.Dy() / grid
	if stepX == 0 {
		stepX = 1
	}
	if stepY == 0 {
		stepY = 1
	}

	var sumR, sumG, sumB, n uint64
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			sumR += uint64(cr >> 8)
			sumG += uint64(cg >> 8)
			sumB += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return "colorful"
	}

	r := uint8(sumR / n)
	g := uint8(sumG / n)
	bl := uint8(sumB / n)

	switch {
	case r > 200 && g > 200 && bl > 200:
		return "bright white"
	case r < 50 && g < 50 && bl < 50:
		return "dark black"
	case r > 200 && g < 100 && bl < 100:
		return "vibrant red"
	case r < 100 && g > 200 && bl < 100:
		return "vibrant green"
	case r < 100 && g < 100 && bl > 200:
		return "vibrant blue"
	case r > 200 && g > 200 && bl < 100:
		return "vibrant yellow"
	case r > 200 && g < 100 && bl > 200:
		return "vibrant purple"
	case r < 100 && g > 200 && bl > 200:
		return "vibrant cyan"
	default:
		return "colorful"
	}
}
