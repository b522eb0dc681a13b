// Package tray runs the system-tray icon whose only job is to quit the
// background process.
package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"fyne.io/systray"
	"github.com/rs/zerolog"
)

const (
	DefaultTitle    = "Govt Job Alert"
	DefaultIconFile = "icon.png"

	fallbackIconSize = 64
)

type Options struct {
	Title    string
	IconPath string
	Logger   zerolog.Logger
	// OnReady runs once the icon is visible.
	OnReady func()
	// OnQuit runs after the tray loop stops. It is expected to end the
	// process.
	OnQuit func()
}

// Run blocks on the calling goroutine, which must be the main one on
// macOS, until Quit is chosen.
func Run(opts Options) {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	icon := LoadIcon(opts.IconPath, opts.Logger)

	systray.Run(func() {
		systray.SetIcon(icon)
		systray.SetTitle(title)
		systray.SetTooltip(title)
		quit := systray.AddMenuItem("Quit", "Stop watching for new jobs")

		go func() {
			<-quit.ClickedCh
			opts.Logger.Info().Msg("quit requested from tray")
			systray.Quit()
		}()

		if opts.OnReady != nil {
			opts.OnReady()
		}
	}, func() {
		if opts.OnQuit != nil {
			opts.OnQuit()
		}
	})
}

// LoadIcon returns the PNG at path, or a plain red square when the file
// is missing or not a PNG.
func LoadIcon(path string, logger zerolog.Logger) []byte {
	if path == "" {
		path = DefaultIconFile
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if _, err = png.DecodeConfig(bytes.NewReader(data)); err == nil {
			return data
		}
	}
	logger.Debug().Err(err).Str("path", path).Msg("using fallback tray icon")
	return FallbackIcon()
}

func FallbackIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, fallbackIconSize, fallbackIconSize))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < fallbackIconSize; y++ {
		for x := 0; x < fallbackIconSize; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
