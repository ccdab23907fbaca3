package filescene

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"viewsynth/internal/exchange"
)

// PNGDisplay writes displayed images as PNG files into Dir.
type PNGDisplay struct {
	Dir string
}

// ShowImage converts the float intensities (expected in [0,1]) to 8-bit and
// writes <target>.png.
func (d *PNGDisplay) ShowImage(img *exchange.Response, target string) error {
	if img.Channels != 1 && img.Channels != 3 && img.Channels != 4 {
		return fmt.Errorf("unsupported channel count %d", img.Channels)
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.Pix[(y*img.Width+x)*img.Channels:]
			var c color.RGBA
			switch img.Channels {
			case 1:
				v := quantize(px[0])
				c = color.RGBA{v, v, v, 0xff}
			case 3:
				c = color.RGBA{quantize(px[0]), quantize(px[1]), quantize(px[2]), 0xff}
			case 4:
				c = color.RGBA{quantize(px[0]), quantize(px[1]), quantize(px[2]), quantize(px[3])}
			}
			out.SetRGBA(x, y, c)
		}
	}

	name := strings.ReplaceAll(target, string(os.PathSeparator), "_") + ".png"
	path := filepath.Join(d.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return nil
}

func quantize(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}
