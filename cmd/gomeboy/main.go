// Command gomeboy drives the emulator headlessly: it loads a ROM (and
// optional boot ROM), runs it for a fixed number of frames, persists
// battery RAM next to the ROM, and writes the final frame out as an
// upscaled PNG screenshot. A real frontend (windowing, audio, input) is
// a separate concern this binary doesn't attempt.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/retrosilicon/gomeboy/internal/machine"
	"github.com/retrosilicon/gomeboy/internal/ppu"
	"github.com/retrosilicon/gomeboy/pkg/utils"
)

func main() {
	romPath := flag.String("rom", "", "ROM file to load (.gb, .gbc, or archived in .zip/.7z/.gz)")
	bootPath := flag.String("boot", "", "optional boot ROM file (256 or 2304 bytes)")
	modelFlag := flag.String("model", "auto", "hardware model: auto, dmg, or cgb")
	frames := flag.Int("frames", 60, "number of frames to run before exiting")
	scale := flag.Int("scale", 4, "integer upscale factor applied to the screenshot")
	screenshot := flag.String("screenshot", "", "path to write a PNG of the final frame (defaults next to the rom)")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *romPath == "" {
		log.Fatal("missing -rom")
	}

	rom, err := utils.LoadFile(*romPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load rom")
	}

	var opts []machine.Option
	opts = append(opts, machine.WithLogger(log))

	switch *modelFlag {
	case "auto":
	case "dmg":
		opts = append(opts, machine.WithModel(machine.ModelDMG))
	case "cgb":
		opts = append(opts, machine.WithModel(machine.ModelCGB))
	default:
		log.Fatalf("unknown -model %q", *modelFlag)
	}

	if *bootPath != "" {
		bootROM, err := utils.LoadFile(*bootPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load boot rom")
		}
		opts = append(opts, machine.WithBootROM(bootROM))
	}

	m, err := machine.New(rom, opts...)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize machine")
	}

	savePath := saveFilePath(*romPath, rom)
	if saved, err := os.ReadFile(savePath); err == nil {
		if err := m.LoadBatteryRAM(saved); err != nil {
			log.WithError(err).Warn("ignoring incompatible save file")
		} else {
			log.WithField("path", savePath).Info("loaded battery ram")
		}
	}

	var frame [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8
	for i := 0; i < *frames; i++ {
		frame = m.RunUntilVBlank()
	}

	if battery := m.BatteryRAM(); battery != nil {
		if err := os.WriteFile(savePath, battery, 0o644); err != nil {
			log.WithError(err).Warn("failed to persist battery ram")
		} else {
			log.WithField("path", savePath).Info("saved battery ram")
		}
	}

	out := *screenshot
	if out == "" {
		out = strings.TrimSuffix(*romPath, filepath.Ext(*romPath)) + ".png"
	}
	if err := writeScreenshot(out, frame, *scale); err != nil {
		log.WithError(err).Fatal("failed to write screenshot")
	}
	log.WithField("path", out).Info("wrote screenshot")
}

// saveFilePath derives a battery-RAM save path in the ROM's directory from
// the ROM's base name plus a hash of its contents, so a different ROM
// placed under the same file name gets its own save. The base name is part
// of the path: differently-named copies of one cartridge get separate
// saves, and renaming a ROM leaves its old save behind.
func saveFilePath(romPath string, rom []byte) string {
	sum := xxhash.Sum64(rom)
	dir := filepath.Dir(romPath)
	return filepath.Join(dir, fmt.Sprintf("%s.%016x.sav", strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath)), sum))
}

func writeScreenshot(path string, frame [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8, scale int) error {
	src := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			px := frame[y][x]
			i := src.PixOffset(x, y)
			src.Pix[i+0], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = px[0], px[1], px[2], 0xFF
		}
	}

	if scale < 1 {
		scale = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth*scale, ppu.ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}
