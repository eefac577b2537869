package imaging

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxUploadDimension bounds disk and downstream memory cost; anything
	// larger is downsampled at save time.
	MaxUploadDimension = 2000

	// InstagramSize is the square resolution the platform expects.
	InstagramSize = 1080

	jpegQuality = 95
)

// Decode reads and decodes an image file (jpeg, png or gif).
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

// Scale resizes img so its larger dimension equals max, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func Scale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	ratio := float64(max) / float64(w)
	if h > w {
		ratio = float64(max) / float64(h)
	}
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// SaveUpload writes the uploaded bytes to path, downsampling first when either
// dimension exceeds MaxUploadDimension. Undecodable data is stored as-is.
func SaveUpload(data []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	img, format, err := Decode(path)
	if err != nil {
		slog.Info("could not inspect uploaded image: " + err.Error())
		return nil
	}

	b := img.Bounds()
	if b.Dx() <= MaxUploadDimension && b.Dy() <= MaxUploadDimension {
		return nil
	}

	log.Printf("upload %s is %dx%d, downsampling", filepath.Base(path), b.Dx(), b.Dy())
	resized := Scale(img, MaxUploadDimension)
	return encodeTo(path, resized, format)
}

// ConvertToInstagramSize center-crops the image to a square, resizes it to
// 1080x1080 and re-encodes it as a high-quality JPEG next to the original.
// Returns the path of the converted file.
func ConvertToInstagramSize(path string) (string, error) {
	img, _, err := Decode(path)
	if err != nil {
		return "", err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	minDim := w
	if h < w {
		minDim = h
	}
	left := b.Min.X + (w-minDim)/2
	top := b.Min.Y + (h-minDim)/2
	crop := image.Rect(left, top, left+minDim, top+minDim)

	// RGBA destination forces a 3-channel JPEG regardless of source mode.
	dst := image.NewRGBA(image.Rect(0, 0, InstagramSize, InstagramSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, xdraw.Over, nil)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	newPath := filepath.Join(filepath.Dir(path), name+"_instagram.jpg")

	if err := encodeTo(newPath, dst, "jpeg"); err != nil {
		return "", err
	}
	return newPath, nil
}

func encodeTo(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		return png.Encode(f, img)
	case "gif":
		return gif.Encode(f, img, nil)
	default:
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
}
