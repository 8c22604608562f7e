// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gdew0213i5f drives a Waveshare 2.13" (D) flexible e-paper HAT.
//
// Usage:
//
//	gdew0213i5f [flags] clear
//	gdew0213i5f [flags] text <message>
//	gdew0213i5f [flags] clock
//	gdew0213i5f [flags] sleep
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/epaper/gdew0213i5f"
	"github.com/GermanBionicSystems/epaper/termview"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// screen is the panel or its terminal preview.
type screen interface {
	display.Drawer
	Clear() error
	Sleep() error
}

type panelScreen struct {
	*gdew0213i5f.Dev
}

func (s panelScreen) Clear() error {
	if err := s.ClearFrame(); err != nil {
		return err
	}
	return s.DisplayFrame()
}

// previewScreen keeps the logical image and prints the packed panel frame,
// so the terminal shows what the panel would receive.
type previewScreen struct {
	view   *termview.Dev
	img    *image1bit.VerticalLSB
	origin gdew0213i5f.Corner
	bg     gdew0213i5f.Color
}

func (s *previewScreen) String() string {
	return s.view.String()
}

func (s *previewScreen) Halt() error {
	return s.view.Halt()
}

func (s *previewScreen) ColorModel() color.Model {
	return image1bit.BitModel
}

func (s *previewScreen) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *previewScreen) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(s.Bounds())
	if clipped.Empty() {
		return nil
	}

	draw.Src.Draw(s.img, clipped, src, sp.Add(clipped.Min.Sub(r.Min)))

	frame, err := gdew0213i5f.Frame(s.origin, s.img)
	if err != nil {
		return err
	}

	_, err = s.view.Write(frame)
	return err
}

func (s *previewScreen) Clear() error {
	return s.Draw(s.Bounds(), &image.Uniform{C: s.bg}, image.Point{})
}

func (s *previewScreen) Sleep() error {
	return s.Halt()
}

// openPreview prints to w, stdout when nil. The view has the panel's
// physical orientation.
func openPreview(cfg *config, opts *gdew0213i5f.Opts, bg gdew0213i5f.Color, w io.Writer) screen {
	size := image.Pt(gdew0213i5f.Width, gdew0213i5f.Height)
	if opts.Origin == gdew0213i5f.TopRight || opts.Origin == gdew0213i5f.BottomLeft {
		size = image.Pt(size.Y, size.X)
	}

	img := image1bit.NewVerticalLSB(image.Rectangle{Max: size})
	draw.Src.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{})

	return &previewScreen{
		view:   termview.New(&termview.Opts{Step: cfg.PreviewStep, W: w}),
		img:    img,
		origin: opts.Origin,
		bg:     bg,
	}
}

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func openPanel(cfg *config, opts *gdew0213i5f.Opts, bg gdew0213i5f.Color) (screen, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}

	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, nil, err
	}

	var pins [4]gpio.PinIO
	for i, name := range []string{cfg.Pins.DC, cfg.Pins.CS, cfg.Pins.RST, cfg.Pins.Busy} {
		if pins[i], err = pinByName(name); err != nil {
			port.Close()
			return nil, nil, err
		}
	}

	dev, err := gdew0213i5f.New(port, pins[0], pins[1], pins[2], pins[3], opts)
	if err != nil {
		port.Close()
		return nil, nil, err
	}

	dev.SetBackgroundColor(bg)
	log.Printf("opened %s", dev)

	return panelScreen{Dev: dev}, port.Close, nil
}

func run(ctx context.Context, s screen, cfg *config, bg gdew0213i5f.Color, args []string) error {
	switch args[0] {
	case "clear":
		return s.Clear()

	case "text":
		if len(args) < 2 {
			return errors.New("text: missing message")
		}

		face, err := loadFace(cfg.Font, cfg.FontSize)
		if err != nil {
			return err
		}

		img := renderText(s.Bounds().Size(), face, bg, strings.Join(args[1:], " "))

		return s.Draw(s.Bounds(), img, image.Point{})

	case "clock":
		face, err := loadFace(cfg.Font, cfg.FontSize)
		if err != nil {
			return err
		}

		c := &clock{
			dev:       s,
			face:      face,
			bg:        bg,
			format:    cfg.ClockFormat,
			fullEvery: cfg.FullRefreshEvery,
			now:       time.Now,
		}

		return runClock(ctx, cfg.Clock, c)

	case "sleep":
		return nil
	}

	return fmt.Errorf("unknown command %q", args[0])
}

func mainImpl() error {
	configPath := flag.String("config", "", "YAML or TOML configuration file")
	preview := flag.Bool("preview", false, "print to the terminal instead of the panel")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] clear|text <message>|clock|sleep\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if flag.NArg() == 0 {
		return errors.New("missing command")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	opts, err := cfg.driverOpts()
	if err != nil {
		return err
	}

	bg, err := cfg.background()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s screen
	if *preview {
		s = openPreview(cfg, &opts, bg, nil)
	} else {
		var closer func() error
		if s, closer, err = openPanel(cfg, &opts, bg); err != nil {
			return err
		}
		defer closer()
	}

	err = run(ctx, s, cfg, bg, flag.Args())

	// Deep sleep keeps the image on the panel.
	if serr := s.Sleep(); err == nil {
		err = serr
	}

	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gdew0213i5f: %s.\n", err)
		os.Exit(1)
	}
}
