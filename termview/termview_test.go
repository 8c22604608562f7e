// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// rows renders the expected output, one string per row, 'x' for black.
func rows(lines ...string) string {
	white := ansi256.Default.Block(toNRGBA(image1bit.On))
	black := ansi256.Default.Block(toNRGBA(image1bit.Off))

	var b strings.Builder
	b.WriteString("\033[0m")
	for _, l := range lines {
		for _, c := range l {
			if c == 'x' {
				b.WriteString(black)
			} else {
				b.WriteString(white)
			}
		}
		b.WriteString("\033[0m\n")
	}
	return b.String()
}

func TestNew(t *testing.T) {
	d := New(&Opts{W: &bytes.Buffer{}})

	if diff := cmp.Diff(d.Bounds(), image.Rect(0, 0, gdew0213i5f.Width, gdew0213i5f.Height)); diff != "" {
		t.Errorf("Bounds() difference (-got +want):\n%s", diff)
	}

	if got := d.String(); got != "TermView{104x212}" {
		t.Errorf("String() = %q", got)
	}
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{Width: 10, Height: 2, W: &out})

	frame := []byte{0x7f, 0xff, 0xff, 0xbf}

	n, err := d.Write(frame)
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	if n != len(frame) {
		t.Errorf("Write() = %d, want %d", n, len(frame))
	}

	if diff := cmp.Diff(out.String(), rows("x.........", ".........x")); diff != "" {
		t.Errorf("Write() difference (-got +want):\n%s", diff)
	}
}

func TestWriteFrameLength(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{W: &out})

	if _, err := d.Write(make([]byte, gdew0213i5f.FrameSize-1)); err == nil {
		t.Error("Write() succeeded with short frame")
	}

	if out.Len() != 0 {
		t.Errorf("Write() printed %d bytes", out.Len())
	}

	if _, err := d.Write(make([]byte, gdew0213i5f.FrameSize)); err != nil {
		t.Errorf("Write() failed: %v", err)
	}
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{Width: 4, Height: 4, Step: 2, W: &out})

	if err := d.Draw(image.Rect(2, 0, 8, 2), &image.Uniform{image1bit.Off}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if diff := cmp.Diff(out.String(), rows(".x", "..")); diff != "" {
		t.Errorf("Draw() difference (-got +want):\n%s", diff)
	}

	out.Reset()

	if err := d.Draw(image.Rect(10, 10, 12, 12), &image.Uniform{image1bit.Off}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("Draw() outside the screen printed %d bytes", out.Len())
	}
}

func TestHalt(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{W: &out})

	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}

	if got := out.String(); got != "\033[0m\n" {
		t.Errorf("Halt() printed %q", got)
	}
}
