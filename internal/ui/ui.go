package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const LinkColor = "#87CEEB"

type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	errOutput := termenv.NewOutput(err)

	colorEnabled := shouldEnableColor(output, mode, disableColor)
	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    errOutput,
		ColorEnabled: colorEnabled,
	}
}

func shouldEnableColor(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

// tone is an ANSI colour index plus an optional bold weight.
type tone struct {
	color string
	bold  bool
}

var (
	toneError   = tone{color: "1"}
	toneWarn    = tone{color: "3"}
	toneInfo    = tone{color: "4"}
	toneSuccess = tone{color: "2"}
	toneAlert   = tone{color: "1", bold: true}
)

func (u *UI) Errorf(format string, args ...any) {
	u.emit(u.Err, u.ErrOutput, toneError, format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.emit(u.Err, u.ErrOutput, toneWarn, format, args...)
}

// Alertf announces a new posting on stdout, bold red when colour is on.
func (u *UI) Alertf(format string, args ...any) {
	u.emit(u.Out, u.Output, toneAlert, format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.emit(u.Out, u.Output, toneInfo, format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.emit(u.Out, u.Output, toneSuccess, format, args...)
}

func (u *UI) emit(w io.Writer, output *termenv.Output, t tone, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled && output != nil {
		style := output.String(msg).Foreground(output.Color(t.color))
		if t.bold {
			style = style.Bold()
		}
		msg = style.String()
	}
	fmt.Fprintln(w, msg)
}

func ColorizeLink(output *termenv.Output, enabled bool, text string) string {
	if !enabled || output == nil {
		return text
	}
	return output.String(text).Foreground(output.Color(LinkColor)).String()
}

func (u *UI) LinkText(text string) string {
	return ColorizeLink(u.Output, u.ColorEnabled, text)
}

func NormalizeColorMode(value string) ColorMode {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case string(ColorAlways):
		return ColorAlways
	case string(ColorNever):
		return ColorNever
	default:
		return ColorAuto
	}
}
