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

package rawformat

import "fmt"

// Class tells the driver's codec registry which family of payload codec a
// flavor routes to (§4.7 PayloadEncoder/PayloadDecoder dispatch).
type Class int

const (
	// ClassAudio routes to the FLAC payload codec.
	ClassAudio Class = iota
	// ClassImage routes to the Zstd/LZMA payload codec.
	ClassImage
	// ClassAttachment carries no payload at all (Unknown variant).
	ClassAttachment
)

func (c Class) String() string {
	switch c {
	case ClassAudio:
		return "audio"
	case ClassImage:
		return "image"
	case ClassAttachment:
		return "attachment"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// AudioFlavor is the closed WAV/AIFF sample-layout enumeration: the tuple of
// sample rate, bit depth, channel count, and endianness that is the single
// handshake between the RawParser and the payload codec.
type AudioFlavor struct {
	SampleRate int  // 44100, 48000, 96000
	BitDepth   int  // 8, 16, 24
	Channels   int  // 1, 2, 6
	BigEndian  bool // true for AIFF PCM, false for WAV PCM / AIFF-C sowt
}

func (f AudioFlavor) String() string {
	endian := "LE"
	if f.BigEndian {
		endian = "BE"
	}
	return fmt.Sprintf("PCM_%d_%d_%d_%s", f.SampleRate, f.BitDepth, f.Channels, endian)
}

// Class reports that audio flavors are always ClassAudio.
func (AudioFlavor) Class() Class { return ClassAudio }

// BytesPerSample is the per-channel sample width in bytes.
func (f AudioFlavor) BytesPerSample() int { return (f.BitDepth + 7) / 8 }

// FrameBytes is the byte width of one interleaved multi-channel sample.
func (f AudioFlavor) FrameBytes() int { return f.BytesPerSample() * f.Channels }

var sampleRates = [...]int{44100, 48000, 96000}
var bitDepths = [...]int{8, 16, 24}
var channelCounts = [...]int{1, 2, 6}

// WAVSupportedFlavors is the 27-entry supported flavor table for WAV: three
// sample rates by three bit depths by three channel counts, always
// little-endian, matching the original implementation's WAV.h table.
func WAVSupportedFlavors() []AudioFlavor {
	out := make([]AudioFlavor, 0, len(sampleRates)*len(bitDepths)*len(channelCounts))
	for _, rate := range sampleRates {
		for _, depth := range bitDepths {
			for _, ch := range channelCounts {
				out = append(out, AudioFlavor{SampleRate: rate, BitDepth: depth, Channels: ch, BigEndian: false})
			}
		}
	}
	return out
}

// AIFFSupportedFlavors is AIFF's supported flavor table: the same cross
// product in big-endian, plus a little-endian (AIFF-C "sowt") entry for
// every bit depth except 24. 24-bit is BE-only in AIFF — there is no 24-bit
// little-endian entry, matching the spec's AIFF flavor scenario.
func AIFFSupportedFlavors() []AudioFlavor {
	out := make([]AudioFlavor, 0, len(sampleRates)*len(bitDepths)*len(channelCounts))
	for _, rate := range sampleRates {
		for _, depth := range bitDepths {
			for _, ch := range channelCounts {
				out = append(out, AudioFlavor{SampleRate: rate, BitDepth: depth, Channels: ch, BigEndian: true})
				if depth != 24 {
					// AIFF-C "sowt" stores PCM little-endian; every bit depth
					// except 24 has a supported LE counterpart.
					out = append(out, AudioFlavor{SampleRate: rate, BitDepth: depth, Channels: ch, BigEndian: false})
				}
			}
		}
	}
	return out
}

func supported(flavor AudioFlavor, table []AudioFlavor) bool {
	for _, f := range table {
		if f == flavor {
			return true
		}
	}
	return false
}

// ImageLayout enumerates the padding/packing conventions a DPX/TIFF pixel
// region can use; it is the portion of ImageFlavor the padding-problem check
// cares about.
type ImageLayout int

const (
	// LayoutPacked has no per-sample padding (e.g. 8/16-bit tightly packed).
	LayoutPacked ImageLayout = iota
	// LayoutPadded10in32 stores 10-bit samples in 32-bit words, the classic
	// DPX padding layout the codec would otherwise normalize silently.
	LayoutPadded10in32
)

// ImageFlavor is the closed DPX/TIFF pixel-layout enumeration: bit depth,
// channel (component) count, and padding layout.
type ImageFlavor struct {
	BitDepth int
	Channels int
	Layout   ImageLayout
	Width    int
	Height   int
}

// Class reports that image flavors are always ClassImage.
func (ImageFlavor) Class() Class { return ClassImage }

func (f ImageFlavor) String() string {
	layout := "packed"
	if f.Layout == LayoutPadded10in32 {
		layout = "10in32"
	}
	return fmt.Sprintf("IMG_%dx%d_%dbpc_%dch_%s", f.Width, f.Height, f.BitDepth, f.Channels, layout)
}
