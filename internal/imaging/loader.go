package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Load decodes the image file at path.
//
// Supported formats are those registered by disintegration/imaging: JPEG,
// PNG, GIF, BMP and TIFF. EXIF orientation is applied so that phone photos
// come out upright.
//
// # Errors
//
//   - *ImageLoadError if the file does not exist or cannot be read
//   - *ImageLoadError if the file cannot be decoded
//   - *ImageLoadError if the decoded image has no pixels
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &ImageLoadError{Path: path, Err: errEmptyImage}
	}
	return img, nil
}

// Validate rejects nil images and images with empty bounds.
func Validate(img image.Image) error {
	if img == nil {
		return &ImageLoadError{Err: fmt.Errorf("nil image")}
	}
	if img.Bounds().Empty() {
		return &ImageLoadError{Err: errEmptyImage}
	}
	return nil
}

// Clone returns an independent copy of img rebased to (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Save encodes img to path, creating the parent directory if needed.
//
// The output format is chosen from the file extension (".jpg", ".jpeg",
// ".png", ".gif", ".bmp", ".tif", ".tiff"). Any other extension is a
// *PersistenceError, as are directory creation and write failures.
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PersistenceError{Path: path, Err: err}
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}
