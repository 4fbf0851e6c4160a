package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// webp has no encoder but uploads with the extension must decode
	_ "golang.org/x/image/webp"

	"github.com/webgarden/platform/internal/domain/asset"
	"github.com/webgarden/platform/internal/domain/shared"
)

// Maximum dimensions for stored images; larger uploads are scaled down
const (
	MaxWidth  = 2000
	MaxHeight = 2000
)

// Thumbnail dimensions
const (
	ThumbWidth  = 300
	ThumbHeight = 300
)

const jpegQuality = 85

// Processed holds the results of processing an uploaded image
type Processed struct {
	Image  []byte // re-encoded, possibly downscaled
	Thumb  []byte // bounded thumbnail, nil unless requested
	Ext    string // extension matching the encoded bytes
	Width  int
	Height int
}

// Processor validates, downscales, and thumbnails uploaded images
type Processor struct {
	maxBytes int64
}

// NewProcessor creates a processor enforcing the given upload size limit
func NewProcessor(maxBytes int64) *Processor {
	return &Processor{maxBytes: maxBytes}
}

// Validate checks the upload's extension and size before any decoding
func (p *Processor) Validate(filename string, size int64) error {
	if err := asset.ValidateExtension(filename); err != nil {
		return err
	}
	if p.maxBytes > 0 && size > p.maxBytes {
		return shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum upload size of %d bytes", p.maxBytes))
	}
	return nil
}

// Process decodes the upload, downscales it to fit the size limits,
// and optionally produces a thumbnail
func (p *Processor) Process(r io.Reader, filename string, withThumbnail bool) (*Processed, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMAGE", "File is not a valid image")
	}

	// Flatten transparency onto white so jpeg output stays predictable
	if isJPEG(filename) {
		img = flatten(img)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxWidth || bounds.Dy() > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
		bounds = img.Bounds()
	}

	encoded, err := encode(img, filename)
	if err != nil {
		return nil, err
	}

	out := &Processed{
		Image:  encoded,
		Ext:    OutputExt(filename),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	if withThumbnail {
		thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
		out.Thumb, err = encode(thumb, filename)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ThumbName derives the thumbnail filename for a stored image
func ThumbName(filename string) string {
	return "thumb_" + filename
}

// OutputExt returns the extension of the bytes Process produces for an
// upload. Formats with a decoder but no encoder come out as PNG.
func OutputExt(filename string) string {
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return ".png"
	}
	return strings.ToLower(filepath.Ext(filename))
}

func isJPEG(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".jpg" || ext == ".jpeg"
}

func flatten(img image.Image) image.Image {
	background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.OverlayCenter(background, img, 1.0)
}

func encode(img image.Image, filename string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		// webp et al. have no encoder; store as png
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
