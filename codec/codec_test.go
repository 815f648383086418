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
	"math"
	"testing"

	"github.com/avrawcook/rawcook/rawformat"
)

func sineWavePCM(af rawformat.AudioFlavor, nsamples int) []byte {
	width := af.BytesPerSample()
	buf := make([]byte, nsamples*af.Channels*width)
	frame := make([]byte, width)
	idx := 0
	for i := 0; i < nsamples; i++ {
		amp := int32(math.Sin(float64(i)/37.0) * float64(int32(1)<<(af.BitDepth-2)))
		for ch := 0; ch < af.Channels; ch++ {
			packSample(frame, amp+int32(ch), af)
			copy(buf[idx:], frame)
			idx += width
		}
	}
	return buf
}

func TestFLACCodecRoundTripStereo16(t *testing.T) {
	af := rawformat.AudioFlavor{SampleRate: 44100, BitDepth: 16, Channels: 2, BigEndian: false}
	payload := sineWavePCM(af, 10000)

	var c FLACCodec
	compressed, err := c.Encode(payload, af)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(compressed) == 0 {
		t.Fatalf("expected non-empty compressed stream")
	}

	decoded, err := c.Decode(compressed, len(payload), af)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(decoded), len(payload))
	}
}

func TestFLACCodecRoundTripMono8(t *testing.T) {
	af := rawformat.AudioFlavor{SampleRate: 48000, BitDepth: 8, Channels: 1, BigEndian: false}
	payload := sineWavePCM(af, 5000)

	var c FLACCodec
	compressed, err := c.Encode(payload, af)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := c.Decode(compressed, len(payload), af)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("round trip mismatch for 8-bit mono")
	}
}

func TestFLACCodecRoundTripBigEndian24(t *testing.T) {
	af := rawformat.AudioFlavor{SampleRate: 96000, BitDepth: 24, Channels: 6, BigEndian: true}
	payload := sineWavePCM(af, 8192)

	var c FLACCodec
	compressed, err := c.Encode(payload, af)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := c.Decode(compressed, len(payload), af)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("round trip mismatch for 24-bit 6-channel")
	}
}

func TestZstdCodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("pixel-row-data-"), 1024)
	var c ZstdCodec
	compressed, err := c.Encode(payload, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(compressed) >= len(payload) {
		t.Fatalf("expected compression, got %d >= %d", len(compressed), len(payload))
	}
	decoded, err := c.Decode(compressed, len(payload), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("zstd round trip mismatch")
	}
}

func TestLZMACodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789ABCDEF"), 512)
	var c LZMACodec
	compressed, err := c.Encode(payload, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := c.Decode(compressed, len(payload), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("lzma round trip mismatch")
	}
}

func TestGenericCodecDelegatesToZstd(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 2048)
	var g GenericCodec
	compressed, err := g.Encode(payload, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := g.Decode(compressed, len(payload), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("generic codec round trip mismatch")
	}
}

func TestRegistryDispatchesByClass(t *testing.T) {
	c, err := GetCodec(rawformat.ClassAudio)
	if err != nil {
		t.Fatalf("GetCodec(ClassAudio): %v", err)
	}
	if _, ok := c.(*FLACCodec); !ok {
		t.Fatalf("expected *FLACCodec for ClassAudio, got %T", c)
	}

	c, err = GetCodec(rawformat.ClassImage)
	if err != nil {
		t.Fatalf("GetCodec(ClassImage): %v", err)
	}
	if _, ok := c.(*ZstdCodec); !ok {
		t.Fatalf("expected *ZstdCodec for ClassImage, got %T", c)
	}

	if _, err := GetCodec(rawformat.ClassAttachment); err == nil {
		t.Fatalf("expected error for unregistered class ClassAttachment")
	}
}
