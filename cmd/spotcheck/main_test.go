package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	db     string
	images string
	src    string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "screens")
	require.NoError(t, os.MkdirAll(src, 0o755))
	for _, name := range []string{"home.png", "settings.png", "profile.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0o644))
	}
	return cliEnv{
		db:     filepath.Join(dir, "spotcheck.db"),
		images: filepath.Join(dir, "uploads"),
		src:    src,
	}
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", "", "--database", e.db, "--catalog", "sqlite"))
	err := rootCmd.Execute()
	return out.String(), err
}

func (e cliEnv) add(t *testing.T, image, instruction string) {
	t.Helper()
	_, err := e.run(t, "steps", "add",
		"--images", e.images,
		"--image", filepath.Join(e.src, image),
		"--instruction", instruction,
		"--hotspot", "50,50,10,10")
	require.NoError(t, err)
}

func TestStepsLifecycle(t *testing.T) {
	e := newCLIEnv(t)

	out, err := e.run(t, "steps", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No steps configured")

	e.add(t, "home.png", "Open settings")
	e.add(t, "settings.png", "Change password")
	e.add(t, "profile.jpg", "Log out")
	assert.FileExists(t, filepath.Join(e.images, "home.png"))

	out, err = e.run(t, "steps", "reorder", "3", "1", "2")
	require.NoError(t, err)
	assert.Regexp(t, `1\s+3\s+profile.jpg\s+\(50,50\)-\(10,10\)\s+Log out`, out)

	_, err = e.run(t, "steps", "reorder", "1", "2")
	assert.Error(t, err, "partial reorder is rejected")

	_, err = e.run(t, "steps", "delete", "1", "--images", e.images)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(e.images, "home.png"))

	out, err = e.run(t, "steps", "list")
	require.NoError(t, err)
	assert.Regexp(t, `1\s+3\s+profile.jpg`, out)
	assert.Regexp(t, `2\s+2\s+settings.png`, out)
	assert.NotContains(t, out, "home.png")

	_, err = e.run(t, "steps", "delete", "42", "--images", e.images)
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}

func TestStepsValidate(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "steps", "validate", "--images", e.images)
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)

	e.add(t, "home.png", "Open settings")
	out, err := e.run(t, "steps", "validate", "--images", e.images)
	require.NoError(t, err)
	assert.Contains(t, out, "1 steps are valid")

	require.NoError(t, os.Remove(filepath.Join(e.images, "home.png")))
	_, err = e.run(t, "steps", "validate", "--images", e.images)
	assert.ErrorContains(t, err, "not found")
}

func TestStepsAdd_Rejects(t *testing.T) {
	e := newCLIEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.src, "notes.txt"), []byte("x"), 0o644))

	_, err := e.run(t, "steps", "add", "--images", e.images,
		"--image", filepath.Join(e.src, "notes.txt"), "--instruction", "x", "--hotspot", "1,1,2,2")
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)

	_, err = e.run(t, "steps", "add", "--images", e.images,
		"--image", filepath.Join(e.src, "home.png"), "--instruction", "x", "--hotspot", "1,1,2")
	assert.Error(t, err)

	e.add(t, "home.png", "first")
	_, err = e.run(t, "steps", "add", "--images", e.images,
		"--image", filepath.Join(e.src, "home.png"), "--instruction", "again", "--hotspot", "1,1,2,2")
	assert.ErrorContains(t, err, "already exists")
}

func TestReport(t *testing.T) {
	e := newCLIEnv(t)
	e.add(t, "home.png", "Open settings")

	out, err := e.run(t, "report", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Spotcheck results")
	assert.Contains(t, out, "| 1 | 1 | Open settings | 0 | 0 | 0% |")
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "spotcheck version")
}

func TestParseHotspot(t *testing.T) {
	h, err := parseHotspot("50, 10,10,50")
	require.NoError(t, err)
	assert.Equal(t, domain.Hotspot{X1: 50, Y1: 10, X2: 10, Y2: 50}, h)

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "1,2,3,4,5"} {
		_, err := parseHotspot(bad)
		assert.Error(t, err, bad)
	}
}

func TestOrphanedImage(t *testing.T) {
	steps := []domain.Step{
		{ID: "1", ImageRef: "a.png"},
		{ID: "2", ImageRef: "shared.png"},
		{ID: "3", ImageRef: "shared.png"},
	}
	assert.Equal(t, "a.png", orphanedImage(steps, "1"))
	assert.Equal(t, "", orphanedImage(steps, "2"))
	assert.Equal(t, "", orphanedImage(steps, "9"))
}
