package domain

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Hotspot is a target rectangle given by two corner points.
// The corners are stored as entered; either point may be the top-left one.
type Hotspot struct {
	X1 int `json:"x1" yaml:"x1"`
	Y1 int `json:"y1" yaml:"y1"`
	X2 int `json:"x2" yaml:"x2"`
	Y2 int `json:"y2" yaml:"y2"`
}

// Bounds returns the normalized rectangle (xMin, yMin, xMax, yMax).
func (h Hotspot) Bounds() (xMin, yMin, xMax, yMax int) {
	return min(h.X1, h.X2), min(h.Y1, h.Y2), max(h.X1, h.X2), max(h.Y1, h.Y2)
}

// Contains reports whether the click (x, y) hits the hotspot.
// Coordinates are in the image's native resolution. All edges are inclusive.
func (h Hotspot) Contains(x, y int) bool {
	xMin, yMin, xMax, yMax := h.Bounds()
	return x >= xMin && x <= xMax && y >= yMin && y <= yMax
}

// Step is one entry of the ordered test sequence.
type Step struct {
	// ID is opaque and stable across reordering.
	ID string `json:"id" yaml:"id"`

	// Order is the 1-based presentation position.
	Order int `json:"order" yaml:"order"`

	Instruction string  `json:"instruction" yaml:"instruction"`
	ImageRef    string  `json:"image" yaml:"image"`
	Hotspot     Hotspot `json:"hotspot" yaml:"hotspot"`
}

// ImageExtensions lists the accepted screenshot formats.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// ValidateImageRef checks that ref names a file with an accepted image extension.
func ValidateImageRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: empty image reference", ErrUnsupportedImage)
	}
	ext := strings.ToLower(path.Ext(ref))
	if !slices.Contains(ImageExtensions, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedImage, ref)
	}
	return nil
}
