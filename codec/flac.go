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

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/avrawcook/rawcook/rawformat"
)

// flacBlockSize is the number of inter-channel samples per encoded frame.
// WriteFrame requires 16 <= blockSize <= 65535; 4096 matches the block size
// the reference FLAC encoder defaults to.
const flacBlockSize = 4096

// flacChannelAssignment maps a supported channel count onto the frame
// package's independent (non-decorrelated) channel assignments. Only the
// assignments whose Count() matches 1, 2 or 6 are reachable, since those are
// the only channel counts AudioFlavor ever carries.
func flacChannelAssignment(channels int) (frame.Channels, error) {
	switch channels {
	case 1:
		return frame.ChannelsMono, nil
	case 2:
		return frame.ChannelsLR, nil
	case 6:
		return frame.ChannelsLRCLfeLsRs, nil
	default:
		return 0, fmt.Errorf("%w: flac: unsupported channel count %d", ErrUnsupportedClass, channels)
	}
}

// FLACCodec routes audio-flavored payload through a genuine FLAC encoder and
// decoder, the same codec family the original implementation compresses
// audio payload with.
type FLACCodec struct{}

// Encode interprets payload as interleaved PCM samples per flavor's sample
// size and channel count, and emits a complete FLAC stream.
func (*FLACCodec) Encode(payload []byte, flv any) ([]byte, error) {
	af, ok := flv.(rawformat.AudioFlavor)
	if !ok {
		return nil, fmt.Errorf("%w: flac: encode requires an AudioFlavor", ErrUnsupportedClass)
	}
	assignment, err := flacChannelAssignment(af.Channels)
	if err != nil {
		return nil, err
	}

	samples, err := unpackPCM(payload, af)
	if err != nil {
		return nil, fmt.Errorf("flac encode: %w", err)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(af.SampleRate),
		NChannels:     uint8(af.Channels),
		BitsPerSample: uint8(af.BitDepth),
	}

	var out bytes.Buffer
	enc, err := flac.NewEncoder(&out, info)
	if err != nil {
		return nil, fmt.Errorf("flac encode: new encoder: %w", err)
	}

	nsamplesPerChannel := len(samples) / af.Channels
	for start, end := 0, 0; start < nsamplesPerChannel; start = end {
		end = start + flacBlockSize
		if end > nsamplesPerChannel || nsamplesPerChannel-end < 16 {
			// A tail of fewer than 16 samples would violate WriteFrame's
			// minimum sample count as a frame of its own; fold it into
			// this frame instead.
			end = nsamplesPerChannel
		}
		n := end - start

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         uint16(n),
				SampleRate:        uint32(af.SampleRate),
				Channels:          assignment,
				BitsPerSample:     uint8(af.BitDepth),
			},
			Subframes: make([]*frame.Subframe, af.Channels),
		}
		for ch := 0; ch < af.Channels; ch++ {
			chSamples := make([]int32, n)
			for i := 0; i < n; i++ {
				chSamples[i] = samples[(start+i)*af.Channels+ch]
			}
			f.Subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   chSamples,
				NSamples:  n,
			}
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("flac encode: write frame: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flac encode: close: %w", err)
	}
	return out.Bytes(), nil
}

// Decode parses a FLAC stream back into interleaved PCM bytes matching
// flavor's sample layout.
func (*FLACCodec) Decode(compressed []byte, payloadLen int, flv any) ([]byte, error) {
	af, ok := flv.(rawformat.AudioFlavor)
	if !ok {
		return nil, fmt.Errorf("%w: flac: decode requires an AudioFlavor", ErrUnsupportedClass)
	}

	stream, err := flac.New(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("flac decode: init: %w", err)
	}
	defer func() { _ = stream.Close() }()

	dst := make([]byte, 0, payloadLen)
	for {
		f, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("flac decode: frame: %w", err)
		}
		dst = appendPCMFrame(dst, f, af)
	}
	if len(dst) > payloadLen {
		dst = dst[:payloadLen]
	}
	return dst, nil
}

// appendPCMFrame packs one decoded frame's samples back into the flavor's
// byte layout and appends them to dst.
func appendPCMFrame(dst []byte, f *frame.Frame, af rawformat.AudioFlavor) []byte {
	if len(f.Subframes) == 0 {
		return dst
	}
	nsamples := f.Subframes[0].NSamples
	bytesPerSample := af.BytesPerSample()
	frameBuf := make([]byte, bytesPerSample)
	for i := 0; i < nsamples; i++ {
		for ch := 0; ch < len(f.Subframes) && ch < af.Channels; ch++ {
			packSample(frameBuf, f.Subframes[ch].Samples[i], af)
			dst = append(dst, frameBuf...)
		}
	}
	return dst
}
