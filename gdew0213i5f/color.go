// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

import (
	"fmt"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Color is one of the two tones the panel can show.
type Color uint8

// Valid Color.
const (
	Black Color = iota
	White
)

// DefaultBackground is the background color of a new Dev.
const DefaultBackground = White

// ColorFromBit returns the color represented by the lowest bit of b.
func ColorFromBit(b byte) Color {
	if b&0x01 == 0 {
		return Black
	}
	return White
}

// Bit returns the frame buffer bit for the color.
func (c Color) Bit() byte {
	if c == White {
		return 1
	}
	return 0
}

// Fill returns the byte with all eight pixels set to the color.
func (c Color) Fill() byte {
	if c == White {
		return 0xFF
	}
	return 0x00
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return image1bit.Bit(c == White).RGBA()
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Set sets the Color to a value represented by the string s. Set implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "black":
		*c = Black
	case "white":
		*c = White
	default:
		return fmt.Errorf("unknown color %q: expected either black or white", s)
	}
	return nil
}

// RefreshMode selects the waveform set used by the controller.
type RefreshMode uint8

const (
	// Full drives every pixel through the complete waveform. Slow, but leaves
	// no ghosting.
	Full RefreshMode = iota
	// Quick uses a short waveform and is used for partial updates.
	Quick
)

func (m RefreshMode) String() string {
	switch m {
	case Full:
		return "full"
	case Quick:
		return "quick"
	}
	return fmt.Sprintf("RefreshMode(%d)", uint8(m))
}

// Set sets the RefreshMode to a value represented by the string s. Set implements the flag.Value interface.
func (m *RefreshMode) Set(s string) error {
	switch s {
	case "full":
		*m = Full
	case "quick":
		*m = Quick
	default:
		return fmt.Errorf("unknown refresh mode %q: expected either full or quick", s)
	}
	return nil
}
