// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"os"

	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const margin = 4

// loadFace parses a TrueType font at size points. An empty path returns the
// built-in bitmap face, which has a fixed size.
func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font file %s: %w", path, err)
	}

	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// renderText centers msg on a canvas of the given size, wrapping long lines.
func renderText(size image.Point, face font.Face, bg gdew0213i5f.Color, msg string) image.Image {
	fg := gdew0213i5f.Black
	if bg == gdew0213i5f.Black {
		fg = gdew0213i5f.White
	}

	dc := gg.NewContext(size.X, size.Y)

	dc.SetColor(bg)
	dc.Clear()

	dc.SetColor(fg)
	dc.SetFontFace(face)
	dc.DrawStringWrapped(msg, float64(size.X)/2, float64(size.Y)/2, 0.5, 0.5, float64(size.X-2*margin), 1.2, gg.AlignCenter)

	return dc.Image()
}
