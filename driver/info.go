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

package driver

import (
	"fmt"
	"os"
)

// StreamInfo summarizes one track for the Info action, without decoding
// any essence bytes.
type StreamInfo struct {
	Class      string
	SampleRate int
	BitDepth   int
	Channels   int
	FrameCount int
	ImageCodec string `json:",omitempty"`
}

// Summary is what the Info action reports: the manifest's identity plus a
// per-track summary. The whole container is read; essence sections are
// counted for FrameCount but never decoded.
type Summary struct {
	LibraryName    string
	LibraryVersion string
	Streams        []StreamInfo
}

// Inspect opens the container at the driver's OutputPath and reports a summary without writing or decoding any
// track's essence, matching the original implementation's "Info" action.
func (d *Driver) Inspect() (Summary, error) {
	f, err := os.Open(d.opts.OutputPath) //nolint:gosec // path is user-provided by design
	if err != nil {
		return Summary{}, fmt.Errorf("open container: %w", err)
	}
	defer func() { _ = f.Close() }()

	manifest, _, trackEssences, err := readContainer(f)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{LibraryName: manifest.LibraryName, LibraryVersion: manifest.LibraryVersion}
	for i, s := range manifest.Streams {
		info := StreamInfo{Class: s.Class.String(), FrameCount: s.FrameCount, ImageCodec: s.ImageCodecName}
		switch {
		case s.AudioFlavor != nil:
			info.SampleRate = s.AudioFlavor.SampleRate
			info.BitDepth = s.AudioFlavor.BitDepth
			info.Channels = s.AudioFlavor.Channels
		case s.ImageFlavor != nil:
			info.BitDepth = s.ImageFlavor.BitDepth
			info.Channels = s.ImageFlavor.Channels
		}
		if i < len(trackEssences) {
			info.FrameCount = len(trackEssences[i])
		}
		summary.Streams = append(summary.Streams, info)
	}
	return summary, nil
}
