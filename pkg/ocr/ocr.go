// Package ocr defines the text-recognition contract and a remote client.
//
// The recognizer itself runs elsewhere (a PaddleOCR service in our
// deployment); this package crops the detection region out of the frame,
// ships it over HTTP, and enriches detections with the recognized text.
package ocr

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// ErrEmptyRegion is returned when the box clamps to a zero-area region.
var ErrEmptyRegion = errors.New("ocr: empty crop region")

// Reader reads text from a box region of a frame.
type Reader interface {
	// ReadText returns the recognized text for the region, possibly empty.
	ReadText(frame detect.Frame, box geometry.Box) (string, error)

	// Enrich returns copies of the detections with Text and
	// TextConfidence attached. Per-box failures yield empty text.
	Enrich(frame detect.Frame, dets []detect.Detection) []detect.Detection
}

// Disabled is the reader used when no OCR service is configured. Every
// region reads as empty, so read mode reports "no text found".
type Disabled struct{}

// ReadText always returns empty text.
func (Disabled) ReadText(detect.Frame, geometry.Box) (string, error) {
	return "", nil
}

// Enrich returns the detections unchanged.
func (Disabled) Enrich(_ detect.Frame, dets []detect.Detection) []detect.Detection {
	return dets
}

var _ Reader = Disabled{}

// CropRegion decodes the frame, clamps the box to the frame bounds, and
// returns the cropped region re-encoded as JPEG.
func CropRegion(frame detect.Frame, box geometry.Box) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(frame.JPEG))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rect := image.Rect(
		max(box.X1, bounds.Min.X),
		max(box.Y1, bounds.Min.Y),
		min(box.X2, bounds.Max.X),
		min(box.Y2, bounds.Max.Y),
	)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, ErrEmptyRegion
	}

	crop := imaging.Crop(img, rect)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, crop, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
