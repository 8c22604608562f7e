// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

// command is a controller instruction. Its value is the byte sent while DC is
// low.
type command byte

// Commands
const (
	panelSetting                 command = 0x00
	powerSetting                 command = 0x01
	powerOff                     command = 0x02
	powerOffSequenceSetting      command = 0x03
	powerOn                      command = 0x04
	powerOnMeasure               command = 0x05
	boosterSoftStart             command = 0x06
	deepSleep                    command = 0x07
	displayStartTransmission1    command = 0x10
	dataStop                     command = 0x11
	displayRefresh               command = 0x12
	displayStartTransmission2    command = 0x13
	autoSequence                 command = 0x17
	vcomLUT                      command = 0x20
	w2wLUT                       command = 0x21
	b2wLUT                       command = 0x22
	w2bLUT                       command = 0x23
	b2bLUT                       command = 0x24
	lutOption                    command = 0x2A
	pllControl                   command = 0x30
	temperatureSensorCalibration command = 0x40
	temperatureSensorSelection   command = 0x41
	temperatureSensorWrite       command = 0x42
	temperatureSensorRead        command = 0x43
	panelBreakCheck              command = 0x44
	vcomAndDataIntervalSetting   command = 0x50
	lowPowerDetection            command = 0x51
	tconSetting                  command = 0x60
	resolutionSetting            command = 0x61
	gateSourceStartSetting       command = 0x65
	revision                     command = 0x70
	getStatus                    command = 0x71
	autoMeasurementVcom          command = 0x80
	readVcomValue                command = 0x81
	vcmDCSetting                 command = 0x82
	partialWindow                command = 0x90
	partialIn                    command = 0x91
	partialOut                   command = 0x92
	programMode                  command = 0xA0
	activeProgramming            command = 0xA1
	readOTP                      command = 0xA2
	cascadeSetting               command = 0xE0
	powerSaving                  command = 0xE3
	lvdVoltageSelect             command = 0xE4
	forceTemperature             command = 0xE5
)

// Parameters with no decomposition in the datasheet.
const (
	// deepSleepCheck must follow deepSleep, otherwise the controller ignores
	// the command.
	deepSleepCheck byte = 0xA5

	vcmDCLevel byte = 0x08

	pllFrequency byte = 0x3A

	// partialWindowScan makes the gates scan both inside and outside the
	// partial window.
	partialWindowScan byte = 0x01
)

var (
	powerSettingParams     = [...]byte{0x03, 0x00, 0x2B, 0x2B, 0x03}
	boosterSoftStartParams = [...]byte{0x17, 0x17, 0x17}
	panelSettingParams     = [...]byte{0xBF, 0x0D}
)

func (c command) address() byte {
	return byte(c)
}
