// Package media handles image uploads: decoding, resizing to the fixed
// dimensions each surface expects, and writing JPEG files under the public
// uploads directory.
package media

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploads
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/trailbound/trailbound-go/internal/config"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// Target dimensions per image kind.
const (
	UserPhotoSize   = 500
	TourImageWidth  = 2000
	TourImageHeight = 1333
)

const jpegQuality = 90

// Processor resizes uploaded images and stores them on disk.
type Processor struct {
	dir     string
	maxSize int64
}

// NewProcessor creates a processor writing below cfg.Dir.
func NewProcessor(cfg *config.UploadsConfig) *Processor {
	return &Processor{dir: cfg.Dir, maxSize: cfg.MaxSizeBytes}
}

// UserPhoto stores an avatar as a 500x500 JPEG under users/ and returns
// the stored filename.
func (p *Processor) UserPhoto(file *multipart.FileHeader, name string) (string, error) {
	return p.process(file, filepath.Join("users", name), UserPhotoSize, UserPhotoSize)
}

// TourImage stores a tour image as a 2000x1333 JPEG under tours/ and
// returns the stored filename.
func (p *Processor) TourImage(file *multipart.FileHeader, name string) (string, error) {
	return p.process(file, filepath.Join("tours", name), TourImageWidth, TourImageHeight)
}

func (p *Processor) process(file *multipart.FileHeader, name string, width, height int) (string, error) {
	if p.maxSize > 0 && file.Size > p.maxSize {
		return "", apperrors.New(apperrors.CodeBadRequest,
			"Uploaded image is too large.", http.StatusBadRequest)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", apperrors.New(apperrors.CodeBadRequest,
			"Not an image! Please upload only images.", http.StatusBadRequest)
	}

	resized := Resize(img, width, height)

	path := filepath.Join(p.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	return filepath.Base(name), nil
}

// Resize scales img to exactly width x height with Catmull-Rom
// interpolation.
func Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Filename builds the stored name for an upload, e.g.
// tour-<id>-<timestamp>-cover.jpeg.
func Filename(kind, id string, stamp int64, suffix string) string {
	return fmt.Sprintf("%s-%s-%d-%s.jpeg", kind, id, stamp, suffix)
}
