// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"
)

// Panel geometry in pixels.
const (
	Width  = 104
	Height = 212

	// FrameSize is the length of a packed frame, one bit per pixel.
	FrameSize = (Width + 7) / 8 * Height
)

var (
	// ErrBufferLength is returned when a full frame does not have FrameSize
	// bytes.
	ErrBufferLength = errors.New("invalid buffer length")

	// ErrWindow is returned for a partial window that can't be encoded.
	ErrWindow = errors.New("invalid partial window")

	// ErrBusyTimeout is returned when the controller stays busy for longer
	// than Opts.BusyTimeout. The device must be initialized again.
	ErrBusyTimeout = errors.New("busy timeout")
)

// Corner describes a corner on the physical device and is used to define the
// origin for drawing operations.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Opts defines the structure of the display configuration.
type Opts struct {
	// Origin is the panel corner used as (0,0) by Draw.
	Origin Corner

	// BusyPollInterval is the delay between two samples of the BUSY line.
	BusyPollInterval time.Duration

	// BusyTimeout bounds every wait for the controller. Zero waits forever.
	BusyTimeout time.Duration
}

// DefaultOpts contains the display configuration for the GDEW0213I5F as
// mounted on the Waveshare 2.13" (D) flexible HAT.
var DefaultOpts = Opts{
	BusyPollInterval: 10 * time.Millisecond,
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	sleep func(time.Duration)

	bounds     image.Rectangle
	buffer     *image1bit.VerticalLSB
	background Color
	mode       RefreshMode

	opts Opts
}

// flipPt returns a new image.Point with the X and Y coordinates exchanged.
func flipPt(pt image.Point) image.Point {
	return image.Point{X: pt.Y, Y: pt.X}
}

// New creates new handler which is used to access the display and runs the
// power-on initialization.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}

	d, err := newDev(c, dc, cs, rst, busy, opts, time.Sleep)
	if err != nil {
		return nil, err
	}

	if err := d.Init(); err != nil {
		return nil, err
	}

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// geometry returns the logical display size and the logical buffer size for
// origin.
func geometry(origin Corner) (displaySize, bufferSize image.Point, err error) {
	displaySize = image.Pt(Width, Height)

	// The physical X axis is sized to have one-byte alignment on the (0,0)
	// on-display position after rotation.
	bufferSize = image.Pt((Width+7)/8*8, Height)

	switch origin {
	case TopLeft, BottomRight:
	case TopRight, BottomLeft:
		displaySize = flipPt(displaySize)
		bufferSize = flipPt(bufferSize)
	default:
		return displaySize, bufferSize, fmt.Errorf("gdew0213i5f: unknown corner %v", origin)
	}

	return displaySize, bufferSize, nil
}

// Frame packs img into a full frame for UpdateFrame, as Draw would with
// origin. Pixels of the display not covered by img are white.
func Frame(origin Corner, img image.Image) ([]byte, error) {
	displaySize, bufferSize, err := geometry(origin)
	if err != nil {
		return nil, err
	}

	buffer := image1bit.NewVerticalLSB(image.Rectangle{Max: bufferSize})
	draw.Src.Draw(buffer, buffer.Bounds(), &image.Uniform{C: image1bit.On}, image.Point{})

	b := img.Bounds()
	opts := &drawOpts{
		devSize: displaySize,
		origin:  origin,
		buffer:  buffer,
		dstRect: image.Rectangle{Max: b.Size()},
		src:     img,
		srcPts:  b.Min,
	}

	// Pack the whole panel even when img only covers part of it.
	s, _ := drawImage(opts)
	s.memRect = image.Rect(0, 0, (Width+7)/8, Height)

	return opts.pack(&s), nil
}

func newDev(c conn.Conn, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts, sleep func(time.Duration)) (*Dev, error) {
	displaySize, bufferSize, err := geometry(opts.Origin)
	if err != nil {
		return nil, err
	}

	if opts.BusyTimeout < 0 {
		return nil, fmt.Errorf("gdew0213i5f: negative busy timeout %v", opts.BusyTimeout)
	}

	d := &Dev{
		c:          c,
		dc:         dc,
		cs:         cs,
		rst:        rst,
		busy:       busy,
		sleep:      sleep,
		bounds:     image.Rectangle{Max: displaySize},
		buffer:     image1bit.NewVerticalLSB(image.Rectangle{Max: bufferSize}),
		background: DefaultBackground,
		mode:       Full,
		opts:       *opts,
	}

	if d.opts.BusyPollInterval <= 0 {
		d.opts.BusyPollInterval = DefaultOpts.BusyPollInterval
	}

	d.fillBuffer(d.background)

	return d, nil
}

// Init resets the controller and configures power, booster, panel and
// resolution. It must be called again after a hardware reset or Sleep.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}

	initDisplay(&eh)

	return eh.err
}

// WakeUp brings the controller back from deep sleep. Deep sleep loses the
// whole configuration, so this is a full initialization.
func (d *Dev) WakeUp() error {
	eh := errorHandler{d: d}

	initDisplay(&eh)
	eh.waitUntilIdle()

	return eh.err
}

// Sleep turns off the power rails and puts the controller into deep sleep.
// The panel keeps showing the last image. Use WakeUp to leave deep sleep.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}

	powerDown(&eh)

	return eh.err
}

// SelectRefreshMode stores mode and uploads its waveform tables.
func (d *Dev) SelectRefreshMode(mode RefreshMode) error {
	switch mode {
	case Full, Quick:
	default:
		return fmt.Errorf("gdew0213i5f: unknown refresh mode %v", mode)
	}

	d.mode = mode

	return d.ReloadRefreshMode()
}

// ReloadRefreshMode uploads the waveform tables of the current refresh mode
// again.
func (d *Dev) ReloadRefreshMode() error {
	eh := errorHandler{d: d}

	configRefreshMode(&eh, d.mode)

	return eh.err
}

// RefreshMode returns the current refresh mode.
func (d *Dev) RefreshMode() RefreshMode {
	return d.mode
}

// UpdateFrame uploads a complete packed frame of FrameSize bytes using the
// full waveform. Call DisplayFrame to show it.
func (d *Dev) UpdateFrame(buf []byte) error {
	if len(buf) != FrameSize {
		return fmt.Errorf("gdew0213i5f: got %d bytes, want %d: %w", len(buf), FrameSize, ErrBufferLength)
	}

	if err := d.SelectRefreshMode(Full); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	writeFrame(&eh, d.background, buf)

	if eh.err == nil {
		d.syncBuffer(buf, image.Rect(0, 0, (Width+7)/8, Height))
	}

	return eh.err
}

// UpdatePartialFrame uploads buf into the window at (x, y) of the given
// size, in panel coordinates, using the quick waveform. Call DisplayFrame to
// show it.
//
// x and x+width are sent as single bytes and should be multiples of 8. buf
// holds (width+7)/8 bytes per row.
func (d *Dev) UpdatePartialFrame(buf []byte, x, y, width, height int) error {
	if x < 0 || y < 0 || width < 0 || height < 0 || x+width > 0xFF || y+height > 0xFFFF {
		return fmt.Errorf("gdew0213i5f: window (%d,%d) %dx%d: %w", x, y, width, height, ErrWindow)
	}

	if want := (width + 7) / 8 * height; len(buf) != want {
		return fmt.Errorf("gdew0213i5f: got %d bytes, want %d: %w", len(buf), want, ErrBufferLength)
	}

	if err := d.SelectRefreshMode(Quick); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	writePartialFrame(&eh, buf, x, y, width, height)

	// Windows which are not byte aligned or leave the panel can't be mapped
	// back onto the buffer.
	if eh.err == nil && x%8 == 0 && width%8 == 0 && x+width <= Width && y+height <= Height {
		d.syncBuffer(buf, image.Rect(x/8, y, (x+width)/8, y+height))
	}

	return eh.err
}

// DisplayFrame refreshes the panel from controller memory and waits for the
// refresh to finish. In Quick mode the controller also leaves partial mode.
func (d *Dev) DisplayFrame() error {
	eh := errorHandler{d: d}

	refreshDisplay(&eh, d.mode)

	return eh.err
}

// ClearFrame fills controller memory with the background color. Call
// DisplayFrame to show it.
func (d *Dev) ClearFrame() error {
	if err := d.SelectRefreshMode(Full); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	clearFrame(&eh, d.background)

	if eh.err == nil {
		d.fillBuffer(d.background)
	}

	return eh.err
}

// SetBackgroundColor changes the color used by UpdateFrame and ClearFrame.
func (d *Dev) SetBackgroundColor(c Color) {
	d.background = c
}

// BackgroundColor returns the color used by UpdateFrame and ClearFrame.
func (d *Dev) BackgroundColor() Color {
	return d.background
}

// IsBusy reports whether the controller is processing a command.
func (d *Dev) IsBusy() bool {
	return d.busy.Read() != idleLevel
}

// Width returns the physical panel width.
func (d *Dev) Width() int {
	return Width
}

// Height returns the physical panel height.
func (d *Dev) Height() int {
	return Height
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configured display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

func (d *Dev) drawOpts(dstRect image.Rectangle, src image.Image, srcPts image.Point) *drawOpts {
	return &drawOpts{
		devSize: d.bounds.Max,
		origin:  d.opts.Origin,
		buffer:  d.buffer,
		dstRect: dstRect,
		src:     src,
		srcPts:  srcPts,
	}
}

// Draw draws the given image to the display and refreshes it. Drawing the
// whole display does a full update, anything smaller a quick partial update
// of the destination area widened to multiples of 8 pixels on the panel's
// horizontal axis.
//
// The panel should get a full update every few partial updates to remove
// ghosting.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	s, data := drawImage(d.drawOpts(dstRect, src, srcPts))

	if s.memRect.Empty() {
		return nil
	}

	var err error

	if s.memRect == (image.Rectangle{Max: image.Pt((Width+7)/8, Height)}) {
		err = d.UpdateFrame(data)
	} else {
		err = d.UpdatePartialFrame(data, s.memRect.Min.X*8, s.memRect.Min.Y, s.memRect.Dx()*8, s.memRect.Dy())
	}

	if err != nil {
		return err
	}

	return d.DisplayFrame()
}

// Halt puts the controller into deep sleep. The image stays on the panel.
func (d *Dev) Halt() error {
	return d.Sleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.bounds.Dx(), d.bounds.Dy())
}

// syncBuffer copies packed panel memory covering mem, in bytes horizontally,
// into the logical buffer.
func (d *Dev) syncBuffer(buf []byte, mem image.Rectangle) {
	opts := d.drawOpts(image.Rectangle{}, nil, image.Point{})
	s := opts.spec()
	s.memRect = mem
	opts.unpack(&s, buf)
}

func (d *Dev) fillBuffer(c Color) {
	draw.Src.Draw(d.buffer, d.buffer.Bounds(), &image.Uniform{C: image1bit.Bit(c == White)}, image.Point{})
}

var _ display.Drawer = &Dev{}
