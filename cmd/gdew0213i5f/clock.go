// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"github.com/robfig/cron/v3"
	"golang.org/x/image/font"
	"periph.io/x/conn/v3/display"
)

// clock draws the current time. Most updates only redraw the middle band of
// the screen, which the panel does with a quick partial refresh.
type clock struct {
	dev       display.Drawer
	face      font.Face
	bg        gdew0213i5f.Color
	format    string
	fullEvery int
	now       func() time.Time

	ticks int
}

// band is the horizontal strip holding the text.
func band(r image.Rectangle) image.Rectangle {
	h := r.Dy() / 3
	return image.Rect(r.Min.X, r.Min.Y+h, r.Max.X, r.Max.Y-h)
}

func (c *clock) tick() error {
	b := c.dev.Bounds()
	img := renderText(b.Size(), c.face, c.bg, c.now().Format(c.format))

	r := b
	if c.ticks%c.fullEvery != 0 {
		r = band(b)
	}
	c.ticks++

	log.Printf("clock: drawing %v", r)

	return c.dev.Draw(r, img, r.Min.Sub(b.Min))
}

// runClock draws once, then on every schedule tick until ctx is done.
func runClock(ctx context.Context, schedule string, c *clock) error {
	cr := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.Default()))))

	if _, err := cr.AddFunc(schedule, func() {
		if err := c.tick(); err != nil {
			log.Printf("clock: %v", err)
		}
	}); err != nil {
		return err
	}

	if err := c.tick(); err != nil {
		return err
	}

	cr.Start()
	<-ctx.Done()
	<-cr.Stop().Done()

	return nil
}
