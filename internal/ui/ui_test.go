package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestNormalizeColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":         ColorAuto,
		" ALWAYS ": ColorAlways,
		"never":    ColorNever,
		"bogus":    ColorAuto,
	}
	for in, want := range cases {
		if got := NormalizeColorMode(in); got != want {
			t.Fatalf("NormalizeColorMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainOutputWhenColorDisabled(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, ColorAlways, true)
	if u.ColorEnabled {
		t.Fatalf("ColorEnabled = true with disableColor")
	}

	u.Alertf("New job [PPSC]: %s\n", "Clerk")
	u.Warnf("source failed")
	if out.String() != "New job [PPSC]: Clerk\n" {
		t.Fatalf("out = %q", out.String())
	}
	if errOut.String() != "source failed\n" {
		t.Fatalf("err = %q", errOut.String())
	}
	if got := u.LinkText("https://x"); got != "https://x" {
		t.Fatalf("LinkText() = %q", got)
	}
}

func TestAlertIsBoldWhenColorEnabled(t *testing.T) {
	var out bytes.Buffer
	output := termenv.NewOutput(&out, termenv.WithProfile(termenv.ANSI))
	u := &UI{Out: &out, Err: &out, Output: output, ErrOutput: output, ColorEnabled: true}

	u.Alertf("New job: %s", "Clerk")
	alert := out.String()
	out.Reset()
	u.Infof("New job: %s", "Clerk")
	info := out.String()

	if !strings.Contains(alert, "New job: Clerk") || !strings.HasPrefix(alert, "\x1b[") {
		t.Fatalf("alert = %q", alert)
	}
	if !strings.Contains(alert, ";1m") {
		t.Fatalf("alert not bold: %q", alert)
	}
	if strings.Contains(info, ";1m") {
		t.Fatalf("info should not be bold: %q", info)
	}
}
