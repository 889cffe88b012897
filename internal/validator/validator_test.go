package validator

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/spotcheck/pkg/domain"
)

func TestValidateCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "home.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Scenario A: Valid Catalog
	valid := []domain.Step{
		{ID: "1", Instruction: "Open settings", ImageRef: "home.png", Hotspot: domain.Hotspot{X1: 50, Y1: 50, X2: 10, Y2: 10}},
		{ID: "2", Instruction: "Point hotspot", ImageRef: "home.png", Hotspot: domain.Hotspot{X1: 7, Y1: 7, X2: 7, Y2: 7}},
	}
	if err := ValidateCatalog(valid, dir); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// Scenario B: Every problem is reported at once
	broken := []domain.Step{
		{ID: "1", Instruction: " ", ImageRef: "home.png"},
		{ID: "1", Instruction: "dup", ImageRef: "missing.png"},
		{ID: "3", Instruction: "bad type", ImageRef: "page.svg"},
		{ID: "4", Instruction: "off image", ImageRef: "home.png", Hotspot: domain.Hotspot{X1: -10, Y1: -10, X2: -1, Y2: -1}},
	}
	err := ValidateCatalog(broken, dir)
	if err == nil {
		t.Fatal("Scenario B expected errors")
	}
	for _, want := range []string{"found 5 errors", "empty instruction", "duplicate id", "missing.png not found", "unsupported image type", "outside the image"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Scenario B: error %q does not mention %q", err, want)
		}
	}

	// Scenario: hotspot past the right or bottom edge of a decodable image
	f, err := os.Create(filepath.Join(dir, "small.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 80))); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	edges := []domain.Step{
		{ID: "1", Instruction: "inside", ImageRef: "small.png", Hotspot: domain.Hotspot{X1: 90, Y1: 70, X2: 200, Y2: 200}},
		{ID: "2", Instruction: "right", ImageRef: "small.png", Hotspot: domain.Hotspot{X1: 100, Y1: 0, X2: 150, Y2: 10}},
		{ID: "3", Instruction: "below", ImageRef: "small.png", Hotspot: domain.Hotspot{X1: 0, Y1: 120, X2: 10, Y2: 80}},
	}
	err = ValidateCatalog(edges, dir)
	if err == nil {
		t.Fatal("expected hotspots past the image edge to be reported")
	}
	for _, want := range []string{"found 2 errors", "step 2 (id 2): hotspot lies outside the image (100x80)", "step 3 (id 3)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("edge check: error %q does not mention %q", err, want)
		}
	}
	if strings.Contains(err.Error(), "step 1 ") {
		t.Errorf("edge check: a hotspot overlapping the image was rejected: %v", err)
	}

	// Scenario C: Empty catalog
	if err := ValidateCatalog(nil, dir); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Errorf("Scenario C: expected empty catalog error, got %v", err)
	}

	// Scenario D: No images dir skips file checks
	if err := ValidateCatalog([]domain.Step{{ID: "1", Instruction: "x", ImageRef: "elsewhere.png"}}, ""); err != nil {
		t.Errorf("Scenario D failed: %v", err)
	}
}
