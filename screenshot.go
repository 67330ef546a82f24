package bough

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. Files land
// under ScreenshotDir and are named after the tree parameters, so a series
// of captures across rebuilds sorts by shape.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// screenshotPath names a capture: bough_d<depth>_b<branches>_<time>_<label>.png.
// A numeric suffix keeps captures taken in the same second apart.
func (s *Scene) screenshotPath(at time.Time, label string, seq int) string {
	name := fmt.Sprintf("bough_d%d_b%d_%s_%s", s.params.Depth, s.params.BranchCount,
		at.Format("20060102_150405"), sanitizeLabel(label))
	if seq > 0 {
		name += fmt.Sprintf("_%d", seq)
	}
	return filepath.Join(s.ScreenshotDir, name+".png")
}

// flushScreenshots reads screen back once and writes it for every queued
// label. The queue is emptied even when writing fails.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	labels := s.screenshotQueue
	s.screenshotQueue = s.screenshotQueue[:0]

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		glog.Errorf("bough: screenshot dir: %v", err)
		return
	}
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	s.writeScreenshots(unpremultiply(pixels, b.Dx(), b.Dy()), time.Now(), labels)
}

// writeScreenshots encodes img once per label.
func (s *Scene) writeScreenshots(img image.Image, at time.Time, labels []string) (written []string) {
	seen := make(map[string]int, len(labels))
	for _, label := range labels {
		key := sanitizeLabel(label)
		path := s.screenshotPath(at, label, seen[key])
		seen[key]++
		if err := writePNG(path, img); err != nil {
			glog.Errorf("bough: screenshot: %v", err)
			continue
		}
		glog.V(1).Infof("bough: wrote screenshot %s", path)
		written = append(written, path)
	}
	return written
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
