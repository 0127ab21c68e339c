package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrosilicon/gomeboy/internal/ppu"
)

func TestSaveFilePathIncludesROMContentHash(t *testing.T) {
	pathA := saveFilePath("/roms/mario.gb", []byte{1, 2, 3})
	pathB := saveFilePath("/roms/mario-copy.gb", []byte{1, 2, 3})
	suffixA := filepath.Base(pathA)[strings.Index(filepath.Base(pathA), "."):]
	suffixB := filepath.Base(pathB)[strings.Index(filepath.Base(pathB), "."):]
	assert.Equal(t, suffixA, suffixB, "two differently-named copies of the same rom share a save suffix")

	pathC := saveFilePath("/roms/mario.gb", []byte{9, 9, 9})
	assert.NotEqual(t, pathA, pathC, "different rom contents hash to a different save file")
}

func TestSaveFilePathStaysInROMDirectory(t *testing.T) {
	path := saveFilePath("/roms/sub/mario.gb", []byte{1})
	assert.Equal(t, "/roms/sub", filepath.Dir(path))
}

func TestWriteScreenshotProducesValidScaledPNG(t *testing.T) {
	var frame [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8
	frame[0][0] = [3]uint8{0x10, 0x20, 0x30}

	out := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, writeScreenshot(out, frame, 2))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, ppu.ScreenWidth*2, bounds.Dx())
	assert.Equal(t, ppu.ScreenHeight*2, bounds.Dy())
}

func TestWriteScreenshotClampsSubOneScale(t *testing.T) {
	var frame [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8
	out := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, writeScreenshot(out, frame, 0))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, ppu.ScreenWidth, bounds.Dx(), "scale below 1 clamps to 1x")
	assert.Equal(t, ppu.ScreenHeight, bounds.Dy())
}
