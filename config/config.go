// Copyright (c) 2026 The Rawcook Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of rawcook.
//
// rawcook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rawcook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rawcook.  If not, see <https://www.gnu.org/licenses/>.

// Package config centralizes the typed knobs a Driver run reads instead of
// scattering them as untyped constants and loose Options fields: which
// payload codec an image track is written with, how many decode workers
// run per track, how overwrite conflicts are resolved, and which
// (DocType, LibraryName, LibraryVersion) range this build writes and
// accepts on read.
package config

import (
	"fmt"

	"github.com/avrawcook/rawcook/framewriter"
	"github.com/avrawcook/rawcook/reversibility"
)

// LibraryName and LibraryVersion are recorded in every container this
// build writes. LibraryName must equal reversibility.SupportedLibraryName
// and LibraryVersion's major component must fall within
// reversibility.Decode's accepted range, or this build would reject its
// own output on read.
const (
	LibraryName    = reversibility.SupportedLibraryName
	LibraryVersion = "0.1.0"
)

// DocType, DocTypeVersion, and MaxSupportedReadVersion mirror the
// reversibility package's wire-format version gate, re-exported here so a
// caller assembling a Config (or reporting one, for -info/logging) doesn't
// need to import reversibility directly.
const (
	DocType                 = reversibility.DocType
	DocTypeVersion          = reversibility.DocTypeVersion
	MaxSupportedReadVersion = reversibility.MaxSupportedReadVersion
)

// ImageCodec names the payload codec an encode run selects for
// image-flavored tracks (DPX/TIFF pixel data); audio tracks always use
// FLAC, since it is the only bitstream this build implements for audio.
type ImageCodec string

const (
	// ImageCodecZstd is the default: fast, generic byte-level compression.
	ImageCodecZstd ImageCodec = "zstd"
	// ImageCodecLZMA trades encode speed for a higher compression ratio on
	// image payload, mirroring the original CHD reader's CDLZ/LZMA hunk
	// codec choice.
	ImageCodecLZMA ImageCodec = "lzma"
)

// Config is the typed configuration one Driver run reads its codec
// choice, worker pool size, and prompt policy from.
type Config struct {
	// ImageCodec selects the image-track payload codec (see ImageCodec).
	// The zero value is treated as ImageCodecZstd by Driver.
	ImageCodec ImageCodec

	// WorkerCount bounds how many tracks Decode processes concurrently.
	// Zero means one worker per track.
	WorkerCount int

	// PromptPolicy and Ask configure overwrite-conflict resolution; see
	// framewriter.Prompter.
	PromptPolicy framewriter.Decision
	Ask          framewriter.AskFunc
}

// Default returns the configuration an unconfigured Driver run uses: Zstd
// for image payload, one decode worker per track, and interactive
// prompting on overwrite conflicts.
func Default() Config {
	return Config{ImageCodec: ImageCodecZstd, PromptPolicy: framewriter.Ask}
}

// Normalize fills in zero-valued fields with Default's values, leaving an
// explicitly-set ImageCodec or PromptPolicy untouched.
func (c Config) Normalize() Config {
	if c.ImageCodec == "" {
		c.ImageCodec = ImageCodecZstd
	}
	return c
}

// Summary renders c for plain log diagnostics (the driver's phase logging),
// not for parsing.
func (c Config) Summary() string {
	return fmt.Sprintf("image codec=%s workers=%d prompt=%v", c.ImageCodec, c.WorkerCount, c.PromptPolicy)
}
