// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the GDEW0213I5F e-paper panel driver, a
// terminal preview with the same geometry and a command line tool.
//
// See package gdew0213i5f for the driver.
package epaper
