package validator

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// ValidateCatalog checks that every step can be shown and answered.
// imagesDir is where image references resolve; empty skips the file checks.
func ValidateCatalog(steps []domain.Step, imagesDir string) error {
	if len(steps) == 0 {
		return domain.ErrEmptyCatalog
	}

	var problems []string
	seen := make(map[string]bool, len(steps))

	for i, s := range steps {
		label := fmt.Sprintf("step %d (id %s)", i+1, s.ID)

		if seen[s.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id", label))
		}
		seen[s.ID] = true

		if strings.TrimSpace(s.Instruction) == "" {
			problems = append(problems, fmt.Sprintf("%s: empty instruction", label))
		}

		// Zero size means unknown; only the negative bounds can be checked then.
		var width, height int
		if err := domain.ValidateImageRef(s.ImageRef); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", label, err))
		} else if imagesDir != "" {
			path := filepath.Join(imagesDir, s.ImageRef)
			if _, err := os.Stat(path); err != nil {
				problems = append(problems, fmt.Sprintf("%s: image %s not found in %s", label, s.ImageRef, imagesDir))
			} else {
				width, height = imageSize(path)
			}
		}

		// Clicks are image pixels, so a hotspot entirely off the image can never be hit.
		xMin, yMin, xMax, yMax := s.Hotspot.Bounds()
		switch {
		case xMax < 0 || yMax < 0:
			problems = append(problems, fmt.Sprintf("%s: hotspot lies outside the image", label))
		case width > 0 && (xMin >= width || yMin >= height):
			problems = append(problems, fmt.Sprintf("%s: hotspot lies outside the image (%dx%d)", label, width, height))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// imageSize reads the pixel dimensions of a png, jpeg or gif file.
// Other formats and unreadable files report 0, 0.
func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
