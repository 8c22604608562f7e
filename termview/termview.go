// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer with the geometry of a
// GDEW0213I5F panel that outputs to a terminal using ANSI color codes.
//
// Useful to lay out a screen before flashing it onto the real panel, which
// takes a few seconds per full refresh.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height default to the panel size.
	Width  int
	Height int

	// Step prints one of every Step pixels in both directions.
	Step int

	Palette *ansi256.Palette

	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	step    int
	palette ansi256.Palette

	img *image1bit.VerticalLSB
	buf bytes.Buffer
}

// New returns a Dev that displays at the console. The screen starts white.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}

	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}

	size := image.Pt(opts.Width, opts.Height)
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(gdew0213i5f.Width, gdew0213i5f.Height)
	}

	step := opts.Step
	if step < 1 {
		step = 1
	}

	d := &Dev{
		w:       w,
		step:    step,
		palette: *p,
		img:     image1bit.NewVerticalLSB(image.Rectangle{Max: size}),
	}

	draw.Src.Draw(d.img, d.img.Bounds(), &image.Uniform{C: image1bit.On}, image.Point{})

	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d}", d.img.Bounds().Dx(), d.img.Bounds().Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a packed frame in the panel's memory layout: rows of
// (Width+7)/8 bytes of the view's own width, most significant bit first, set
// bits white. With the default size this is a gdew0213i5f frame as returned
// by gdew0213i5f.Frame.
func (d *Dev) Write(frame []byte) (int, error) {
	b := d.img.Bounds()
	stride := (b.Dx() + 7) / 8

	if len(frame) != stride*b.Dy() {
		return 0, errors.New("invalid frame length")
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			bit := frame[y*stride+x/8] >> (7 - uint(x%8)) & 1
			d.img.SetBit(x, y, image1bit.Bit(bit == 1))
		}
	}

	if err := d.refresh(); err != nil {
		return 0, err
	}

	return len(frame), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.Bounds())
	if clipped.Empty() {
		return nil
	}

	draw.Src.Draw(d.img, clipped, src, sp.Add(clipped.Min.Sub(r.Min)))

	return d.refresh()
}

func (d *Dev) refresh() error {
	b := d.img.Bounds()

	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[0m")
	for y := b.Min.Y; y < b.Max.Y; y += d.step {
		for x := b.Min.X; x < b.Max.X; x += d.step {
			_, _ = io.WriteString(&d.buf, d.palette.Block(toNRGBA(d.img.BitAt(x, y))))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
