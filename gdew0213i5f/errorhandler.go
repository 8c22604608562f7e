// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gdew0213i5f

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// idleLevel is the level of the BUSY line while the controller accepts
// commands.
const idleLevel = gpio.High

// errorHandler is a wrapper for error management. Once err is set all further
// bus and pin operations are skipped.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

func (eh *errorHandler) sleep(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.sleep(d)
}

func (eh *errorHandler) reset() {
	eh.rstOut(gpio.High)
	eh.sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	eh.sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.sleep(20 * time.Millisecond)
}

func (eh *errorHandler) sendCommand(cmd command) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd.address()}, nil)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data, nil)
	eh.csOut(gpio.High)
}

// waitUntilIdle polls the BUSY line. Without a BusyTimeout it never gives
// up.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}

	interval := eh.d.opts.BusyPollInterval
	timeout := eh.d.opts.BusyTimeout

	var waited time.Duration

	for eh.d.busy.Read() != idleLevel {
		if timeout > 0 && waited >= timeout {
			eh.err = fmt.Errorf("gdew0213i5f: still busy after %v: %w", waited, ErrBusyTimeout)
			return
		}

		eh.d.sleep(interval)
		waited += interval
	}
}
