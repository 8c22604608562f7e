// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

import "bytes"

type controller interface {
	reset()
	sendCommand(command)
	sendData([]byte)
	waitUntilIdle()
}

// initDisplay powers the panel up from reset. The controller rejects any
// other ordering.
func initDisplay(ctrl controller) {
	ctrl.reset()

	ctrl.sendCommand(powerSetting)
	ctrl.sendData(powerSettingParams[:])

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData(boosterSoftStartParams[:])

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(panelSetting)
	ctrl.sendData(panelSettingParams[:])

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{pllFrequency})

	// Height needs 9 bits, width fits in one byte.
	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData([]byte{Width, byte(Height >> 8), byte(Height & 0xFF)})
}

func powerDown(ctrl controller) {
	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheck})
}

// configRefreshMode uploads the waveform set of mode. The controller loses
// the tables on some operations, so this is done before every frame write.
func configRefreshMode(ctrl controller, mode RefreshMode) {
	w := waveformFor(mode)

	ctrl.sendCommand(vcmDCSetting)
	ctrl.sendData([]byte{vcmDCLevel})

	ctrl.sendCommand(vcomAndDataIntervalSetting)
	ctrl.sendData([]byte{w.vcomDataInterval})

	for _, t := range []struct {
		cmd command
		lut LUT
	}{
		{vcomLUT, w.vcom},
		{w2wLUT, w.ww},
		{b2wLUT, w.bw},
		{w2bLUT, w.wb},
		{b2bLUT, w.bb},
	} {
		ctrl.sendCommand(t.cmd)
		ctrl.sendData(t.lut)
	}
}

// writeFrame uploads a complete frame. The old image plane is flooded with
// the background so the differential refresh redraws every pixel.
func writeFrame(ctrl controller, background Color, buf []byte) {
	ctrl.sendCommand(displayStartTransmission1)
	ctrl.sendData(bytes.Repeat([]byte{background.Fill()}, FrameSize))

	ctrl.sendCommand(displayStartTransmission2)
	ctrl.sendData(buf)

	ctrl.waitUntilIdle()
}

// partialWindowData encodes a window. X is a single byte, Y takes two since
// the panel is taller than 255 rows.
func partialWindowData(x, y, width, height int) []byte {
	xEnd := x + width
	yEnd := y + height

	return []byte{
		byte(x),
		byte(xEnd),
		byte(y >> 8),
		byte(y & 0xFF),
		byte(yEnd >> 8),
		byte(yEnd & 0xFF),
		partialWindowScan,
	}
}

// writePartialFrame uploads buf into a window. The controller stays in
// partial mode until refreshDisplay.
func writePartialFrame(ctrl controller, buf []byte, x, y, width, height int) {
	ctrl.sendCommand(partialIn)

	ctrl.sendCommand(partialWindow)
	ctrl.sendData(partialWindowData(x, y, width, height))

	ctrl.sendCommand(displayStartTransmission2)
	ctrl.sendData(buf)
}

func refreshDisplay(ctrl controller, mode RefreshMode) {
	ctrl.sendCommand(displayRefresh)

	if mode == Quick {
		// Otherwise the next full update is clipped to the last window.
		ctrl.sendCommand(partialOut)
	}

	ctrl.waitUntilIdle()
}

// clearFrame fills the new image plane. Nothing changes on the panel until
// the next refresh.
func clearFrame(ctrl controller, background Color) {
	ctrl.sendCommand(displayStartTransmission2)
	ctrl.sendData(bytes.Repeat([]byte{background.Fill()}, FrameSize))
}
