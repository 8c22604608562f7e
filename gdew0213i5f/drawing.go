// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

import (
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

type drawOpts struct {
	devSize image.Point
	origin  Corner
	buffer  *image1bit.VerticalLSB
	dstRect image.Rectangle
	src     image.Image
	srcPts  image.Point
}

type drawSpec struct {
	// Amount by which buffer contents must be moved to align with the physical
	// top-left corner of the display.
	bufferDstOffset image.Point

	// Destination in buffer in pixels.
	bufferDstRect image.Rectangle

	// Source point matching bufferDstRect.Min after clipping.
	srcPts image.Point

	// Destination in panel memory, rotated and shifted to match the origin.
	memDstRect image.Rectangle

	// Area to send to the panel; horizontally in bytes (thus aligned to
	// 8 pixels), vertically in pixels. Computed from memDstRect.
	memRect image.Rectangle
}

// spec pre-computes the various offsets required for sending image updates to
// the device.
func (o *drawOpts) spec() drawSpec {
	s := drawSpec{
		bufferDstRect: image.Rectangle{Max: o.devSize}.Intersect(o.dstRect),
	}

	s.srcPts = o.srcPts.Add(s.bufferDstRect.Min.Sub(o.dstRect.Min))

	switch o.origin {
	case TopRight:
		s.bufferDstOffset.Y = o.buffer.Bounds().Dy() - o.devSize.Y
	case BottomRight, BottomLeft:
		s.bufferDstOffset.Y = o.buffer.Bounds().Dy() - o.devSize.Y
		s.bufferDstOffset.X = o.buffer.Bounds().Dx() - o.devSize.X
	}

	if s.bufferDstRect.Empty() {
		return s
	}

	switch o.origin {
	case TopLeft:
		s.memDstRect = s.bufferDstRect

	case TopRight:
		s.memDstRect.Min.X = o.devSize.Y - s.bufferDstRect.Max.Y
		s.memDstRect.Max.X = o.devSize.Y - s.bufferDstRect.Min.Y

		s.memDstRect.Min.Y = s.bufferDstRect.Min.X
		s.memDstRect.Max.Y = s.bufferDstRect.Max.X

	case BottomRight:
		s.memDstRect.Min.X = o.devSize.X - s.bufferDstRect.Max.X
		s.memDstRect.Max.X = o.devSize.X - s.bufferDstRect.Min.X

		s.memDstRect.Min.Y = o.devSize.Y - s.bufferDstRect.Max.Y
		s.memDstRect.Max.Y = o.devSize.Y - s.bufferDstRect.Min.Y

	case BottomLeft:
		s.memDstRect.Min.X = s.bufferDstRect.Min.Y
		s.memDstRect.Max.X = s.bufferDstRect.Max.Y

		s.memDstRect.Min.Y = o.devSize.X - s.bufferDstRect.Max.X
		s.memDstRect.Max.Y = o.devSize.X - s.bufferDstRect.Min.X
	}

	s.bufferDstRect = s.bufferDstRect.Add(s.bufferDstOffset)

	s.memRect.Min.X = s.memDstRect.Min.X / 8
	s.memRect.Max.X = (s.memDstRect.Max.X + 7) / 8
	s.memRect.Min.Y = s.memDstRect.Min.Y
	s.memRect.Max.Y = s.memDstRect.Max.Y

	return s
}

// posFor maps a bit in panel memory to the logical buffer, before applying
// bufferDstOffset.
func (o *drawOpts) posFor(destY, destX, bit int) image.Point {
	switch o.origin {
	case TopRight:
		return image.Point{
			X: destY,
			Y: o.devSize.Y - destX - bit - 1,
		}

	case BottomRight:
		return image.Point{
			X: o.devSize.X - destX - bit - 1,
			Y: o.devSize.Y - destY - 1,
		}

	case BottomLeft:
		return image.Point{
			X: o.devSize.X - destY - 1,
			Y: destX + bit,
		}
	}

	return image.Point{
		X: destX + bit,
		Y: destY,
	}
}

// pack returns the memRect area of the buffer in panel layout: row-major,
// most significant bit first, a set bit is white.
func (o *drawOpts) pack(s *drawSpec) []byte {
	cols := s.memRect.Dx()
	data := make([]byte, cols*s.memRect.Dy())

	for destY := s.memRect.Min.Y; destY < s.memRect.Max.Y; destY++ {
		row := data[(destY-s.memRect.Min.Y)*cols:]

		for destX := 0; destX < cols; destX++ {
			for bit := 0; bit < 8; bit++ {
				pos := o.posFor(destY, (s.memRect.Min.X+destX)*8, bit).Add(s.bufferDstOffset)

				if o.buffer.BitAt(pos.X, pos.Y) {
					row[destX] |= 0x80 >> bit
				}
			}
		}
	}

	return data
}

// unpack is the inverse of pack.
func (o *drawOpts) unpack(s *drawSpec, data []byte) {
	cols := s.memRect.Dx()

	for destY := s.memRect.Min.Y; destY < s.memRect.Max.Y; destY++ {
		row := data[(destY-s.memRect.Min.Y)*cols:]

		for destX := 0; destX < cols; destX++ {
			for bit := 0; bit < 8; bit++ {
				pos := o.posFor(destY, (s.memRect.Min.X+destX)*8, bit).Add(s.bufferDstOffset)

				o.buffer.SetBit(pos.X, pos.Y, image1bit.Bit(row[destX]&(0x80>>bit) != 0))
			}
		}
	}
}

// drawImage renders the source into the buffer and returns the bytes of the
// affected panel area.
func drawImage(opts *drawOpts) (drawSpec, []byte) {
	s := opts.spec()

	if s.memRect.Empty() {
		return s, nil
	}

	// The buffer is kept in logical orientation. Rotation and alignment with
	// the origin happens while packing.
	draw.Src.Draw(opts.buffer, s.bufferDstRect, opts.src, s.srcPts)

	return s, opts.pack(&s)
}
