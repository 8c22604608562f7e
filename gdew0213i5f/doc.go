// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gdew0213i5f controls the Good Display GDEW0213I5F 2.13" flexible
// e-paper panel, sold by Waveshare as the 2.13inch e-Paper HAT (D).
//
// The panel has 104x212 black and white pixels and an IL0373 class
// controller. It supports full refreshes and quick refreshes of a window
// (partial updates). Quick refreshes leave ghosting behind; the vendor
// recommends a full refresh every few partial updates.
//
// Every operation blocks until the controller reports it is idle on the
// BUSY line. There is no timeout unless Opts.BusyTimeout is set.
//
// Product page:
//
// https://www.waveshare.com/wiki/2.13inch_e-Paper_HAT_(D)
//
package gdew0213i5f
