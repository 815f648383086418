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
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/avrawcook/rawcook/config"
)

func putLE16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func putLE32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }

// buildWAV constructs a minimal canonical-form PCM WAV file, the same shape
// rawformat's own tests build.
func buildWAV(payload []byte, rate, bits, channels int) []byte {
	dataLen := len(payload)
	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	putLE32(buf, 4, uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	putLE32(buf, 16, 16)
	putLE16(buf, 20, 1)
	putLE16(buf, 22, uint16(channels))
	putLE32(buf, 24, uint32(rate))
	blockAlign := channels * (bits / 8)
	putLE32(buf, 28, uint32(rate*blockAlign))
	putLE16(buf, 32, uint16(blockAlign))
	putLE16(buf, 34, uint16(bits))
	copy(buf[36:40], "data")
	putLE32(buf, 40, uint32(dataLen))
	copy(buf[44:], payload)
	return buf
}

func TestDriverEncodeDecodeRoundTrip(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	payload := make([]byte, 2*2*4096) // 4096 stereo 16-bit frames: one full FLAC block
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	wav := buildWAV(payload, 48000, 16, 2)
	if err := os.WriteFile(filepath.Join(inDir, "reel.wav"), wav, 0o644); err != nil {
		t.Fatalf("write input wav: %v", err)
	}

	containerPath := filepath.Join(outDir, "reel.rwck")
	enc := New(Options{InputDir: inDir, OutputPath: containerPath, Hash: true, Write: true, Verify: true})
	if err := enc.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	reconDir := t.TempDir()
	dec := New(Options{InputDir: reconDir, OutputPath: containerPath, Write: true, Verify: true, Config: config.Config{WorkerCount: 2}})
	if err := dec.Decode(context.Background()); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(reconDir, "reel.wav"))
	if err != nil {
		t.Fatalf("read reconstructed file: %v", err)
	}
	if !bytes.Equal(got, wav) {
		t.Fatalf("reconstructed file does not match original: got %d bytes, want %d", len(got), len(wav))
	}
}

func TestDriverEncodeNoInputFiles(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	d := New(Options{InputDir: inDir, OutputPath: filepath.Join(outDir, "out.rwck")})
	if err := d.Encode(); err == nil {
		t.Fatalf("expected ErrNoInputFiles for an empty input directory")
	}
}

func TestDriverEncodeAttachmentRoundTrip(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	sidecar := []byte("camera metadata, not a raw media file")
	if err := os.WriteFile(filepath.Join(inDir, "notes.txt"), sidecar, 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}

	containerPath := filepath.Join(outDir, "notes.rwck")
	enc := New(Options{InputDir: inDir, OutputPath: containerPath, Write: true})
	if err := enc.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := os.Stat(attachmentsBundlePath(containerPath)); err != nil {
		t.Fatalf("expected an attachments bundle: %v", err)
	}

	reconDir := t.TempDir()
	dec := New(Options{InputDir: reconDir, OutputPath: containerPath, Write: true})
	if err := dec.Decode(context.Background()); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(reconDir, "notes.txt"))
	if err != nil {
		t.Fatalf("read reconstructed attachment: %v", err)
	}
	if !bytes.Equal(got, sidecar) {
		t.Fatalf("reconstructed attachment mismatch")
	}
}

func putBE32(b []byte, off int, v uint32) { binary.BigEndian.PutUint32(b[off:], v) }

// buildDPX constructs a minimal single-element DPX file, the same byte
// layout rawformat's own tests build, with a non-padded packing code so
// the whole payload is treated as compressible pixel data.
func buildDPX(payload []byte, width, height int) []byte {
	const dataOffset = 0x2000
	const pixelsPerLineOffset, linesOffset, bitDepthOffset, packingOffset = 0x328, 0x32C, 0x31C, 0x320
	buf := make([]byte, dataOffset+len(payload))
	copy(buf[0:4], "SDPX")
	putBE32(buf, 0x04, dataOffset)
	putBE32(buf, 0x10, uint32(len(buf)))
	putBE32(buf, pixelsPerLineOffset, uint32(width))
	putBE32(buf, linesOffset, uint32(height))
	buf[bitDepthOffset] = 10
	putBE32(buf, packingOffset, 1)
	copy(buf[dataOffset:], payload)
	return buf
}

// TestDriverEncodeDecodeRoundTripLZMAImageCodec exercises config.Config's
// image codec selection end to end: an encode run configured for
// ImageCodecLZMA must produce a container a decode run (which reads the
// codec choice back from the manifest, not from its own Config) can still
// reconstruct bit-exactly.
func TestDriverEncodeDecodeRoundTripLZMAImageCodec(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	payload := make([]byte, 1920*4)
	for i := range payload {
		payload[i] = byte(i * 13)
	}
	dpx := buildDPX(payload, 1920, 1)
	if err := os.WriteFile(filepath.Join(inDir, "shot_000001.dpx"), dpx, 0o644); err != nil {
		t.Fatalf("write input dpx: %v", err)
	}

	containerPath := filepath.Join(outDir, "shot.rwck")
	enc := New(Options{InputDir: inDir, OutputPath: containerPath, Write: true, Config: config.Config{ImageCodec: config.ImageCodecLZMA}})
	if err := enc.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	reconDir := t.TempDir()
	dec := New(Options{InputDir: reconDir, OutputPath: containerPath, Write: true})
	if err := dec.Decode(context.Background()); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(reconDir, "shot_000001.dpx"))
	if err != nil {
		t.Fatalf("read reconstructed file: %v", err)
	}
	if !bytes.Equal(got, dpx) {
		t.Fatalf("reconstructed file does not match original")
	}
}

func TestCheckCoherencyDisagreement(t *testing.T) {
	err := checkCoherency([]string{"a.wav", "b.wav"}, []float64{10.0, 5.0})
	if err == nil {
		t.Fatalf("expected a coherency error for mismatched durations")
	}
	var coh CoherencyError
	if !asCoherencyError(err, &coh) {
		t.Fatalf("expected a CoherencyError, got %T: %v", err, err)
	}
	if coh.StreamA != "a.wav" || coh.StreamB != "b.wav" {
		t.Fatalf("unexpected stream names in error: %+v", coh)
	}
}

func TestCheckCoherencyWithinTolerance(t *testing.T) {
	err := checkCoherency([]string{"a.wav", "b.wav"}, []float64{10.0, 10.03})
	if err != nil {
		t.Fatalf("expected durations within tolerance to pass, got %v", err)
	}
}

func asCoherencyError(err error, out *CoherencyError) bool {
	ce, ok := err.(CoherencyError)
	if ok {
		*out = ce
	}
	return ok
}

func TestProgressPauseResume(t *testing.T) {
	p := NewProgress(10)
	p.Pause()
	if !p.IsPaused() {
		t.Fatalf("expected IsPaused after Pause")
	}
	done := make(chan struct{})
	go func() {
		p.WaitIfPaused()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("WaitIfPaused returned while still paused")
	default:
	}
	p.Resume()
	<-done
	p.Advance(3)
	if p.Completed() != 3 {
		t.Fatalf("Completed() = %d, want 3", p.Completed())
	}
	p.End()
	if !p.IsEnd() {
		t.Fatalf("expected IsEnd after End")
	}
}
