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

package reversibility

import (
	"bytes"
	"errors"
	"testing"
)

func TestMaskAdditionRoundTrip(t *testing.T) {
	template := []byte("shot01_000001.dpx header bytes.....")
	field := []byte("shot01_000002.dpx header bytes.....")
	addition := maskAddition(field, template)
	got := applyMaskAddition(template, addition, len(field))
	if !bytes.Equal(got, field) {
		t.Fatalf("applyMaskAddition round trip mismatch:\n got  %q\n want %q", got, field)
	}
}

func TestMaskAdditionDifferentLengths(t *testing.T) {
	template := []byte("short")
	field := []byte("a much longer field value")
	addition := maskAddition(field, template)
	got := applyMaskAddition(template, addition, len(field))
	if !bytes.Equal(got, field) {
		t.Fatalf("mismatch with template shorter than field:\n got  %q\n want %q", got, field)
	}

	template2 := []byte("a much longer template value")
	field2 := []byte("short")
	addition2 := maskAddition(field2, template2)
	got2 := applyMaskAddition(template2, addition2, len(field2))
	if !bytes.Equal(got2, field2) {
		t.Fatalf("mismatch with field shorter than template:\n got  %q\n want %q", got2, field2)
	}
}

func TestFieldValueRoundTripCompressible(t *testing.T) {
	raw := bytes.Repeat([]byte{0x00}, 4096) // highly compressible
	encoded := encodeFieldValue(raw)
	if len(encoded) >= len(raw) {
		t.Fatalf("expected compression to shrink an all-zero buffer, got %d >= %d", len(encoded), len(raw))
	}
	decoded, err := decodeFieldValue(encoded)
	if err != nil {
		t.Fatalf("decodeFieldValue: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Fatalf("round trip mismatch for compressible field")
	}
}

func TestFieldValueRoundTripIncompressible(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03} // too short to ever compress smaller
	encoded := encodeFieldValue(raw)
	decoded, err := decodeFieldValue(encoded)
	if err != nil {
		t.Fatalf("decodeFieldValue: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Fatalf("round trip mismatch for incompressible field: got %v want %v", decoded, raw)
	}
}

func TestEncodeDecodeUniqueTrack(t *testing.T) {
	seg := SegmentRecord{
		LibraryName:    "rawcook",
		LibraryVersion: "1.0",
		PathSeparator:  "/",
		Tracks: []TrackRecord{
			{
				Unique: true,
				Frames: []FrameRecord{
					{
						Filename: "audio.wav",
						Before:   []byte("RIFF....WAVEfmt ....."),
						After:    []byte{},
						FileSize: 123456,
						Hash:     bytes.Repeat([]byte{0xAB}, 16),
					},
				},
			},
		},
	}

	data := Encode(seg)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(got.Tracks))
	}
	tr := got.Tracks[0]
	if !tr.Unique {
		t.Fatalf("expected Unique track")
	}
	if len(tr.Frames) != 1 {
		t.Fatalf("expected 1 folded frame, got %d", len(tr.Frames))
	}
	frame := tr.Frames[0]
	if frame.Filename != "audio.wav" {
		t.Fatalf("filename mismatch: %q", frame.Filename)
	}
	if !bytes.Equal(frame.Before, seg.Tracks[0].Frames[0].Before) {
		t.Fatalf("before mismatch: got %q want %q", frame.Before, seg.Tracks[0].Frames[0].Before)
	}
	if frame.FileSize != 123456 {
		t.Fatalf("file size mismatch: %d", frame.FileSize)
	}
	if !bytes.Equal(frame.Hash, seg.Tracks[0].Frames[0].Hash) {
		t.Fatalf("hash mismatch")
	}
}

func TestEncodeDecodeSequenceTrackWithDelta(t *testing.T) {
	template := TemplateRecord{
		Filename: "shot01_000001.dpx",
		Before:   bytes.Repeat([]byte{0x11}, 2048),
		After:    []byte{},
	}
	frames := []FrameRecord{
		{Filename: "shot01_000001.dpx", Before: template.Before, After: []byte{}, FileSize: 2048 + 100, Hash: bytes.Repeat([]byte{0x01}, 16)},
		{Filename: "shot01_000002.dpx", Before: append(append([]byte{}, template.Before[:2046]...), 0x12, 0x02), After: []byte{}, FileSize: 2048 + 100, Hash: bytes.Repeat([]byte{0x02}, 16)},
	}
	seg := SegmentRecord{
		LibraryName: "rawcook", LibraryVersion: "1.0", PathSeparator: "/",
		Tracks: []TrackRecord{{Unique: false, Template: template, Frames: frames}},
	}

	data := Encode(seg)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tr := got.Tracks[0]
	if tr.Unique {
		t.Fatalf("expected non-Unique track")
	}
	if len(tr.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(tr.Frames))
	}
	for i, want := range frames {
		got := tr.Frames[i]
		if got.Filename != want.Filename {
			t.Fatalf("frame %d filename: got %q want %q", i, got.Filename, want.Filename)
		}
		if !bytes.Equal(got.Before, want.Before) {
			t.Fatalf("frame %d before mismatch", i)
		}
		if got.FileSize != want.FileSize {
			t.Fatalf("frame %d file size: got %d want %d", i, got.FileSize, want.FileSize)
		}
	}
}

func TestDecodeRejectsWrongDocType(t *testing.T) {
	seg := SegmentRecord{LibraryName: "x", LibraryVersion: "1", PathSeparator: "/"}
	data := Encode(seg)

	// Corrupt the DocType string inside the already-encoded header by
	// re-encoding from scratch with a bad header, rather than poking bytes.
	var buf bytes.Buffer
	writeBadHeader(&buf)
	var segChildren bytes.Buffer
	writeRawField(&segChildren, idLibraryName, []byte("x"))
	writeRawField(&segChildren, idLibraryVersion, []byte("1"))
	writeRawField(&segChildren, idPathSeparator, []byte("/"))
	wrap(&buf, idSegment, &segChildren)

	_, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedDocType) {
		t.Fatalf("expected ErrUnsupportedDocType, got %v", err)
	}
	_ = data
}

func writeBadHeader(buf *bytes.Buffer) {
	var children bytes.Buffer
	writeElement(&children, idDocType, []byte("not-rawcooked"))
	writeElement(&children, idDocTypeVersion, []byte{0x81})
	writeElement(&children, idDocTypeReadVersion, []byte{0x81})
	wrap(buf, idNameEBML, &children)
}

func TestDecodeRejectsUnsupportedReadVersion(t *testing.T) {
	var buf bytes.Buffer
	var children bytes.Buffer
	writeElement(&children, idDocType, []byte(DocType))
	writeElement(&children, idDocTypeVersion, []byte{0x81})
	writeElement(&children, idDocTypeReadVersion, []byte{0x82}) // value 2, exceeds MaxSupportedReadVersion
	wrap(&buf, idNameEBML, &children)
	var segChildren bytes.Buffer
	wrap(&buf, idSegment, &segChildren)

	_, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeRejectsUnsupportedLibraryName(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf)
	var segChildren bytes.Buffer
	writeRawField(&segChildren, idLibraryName, []byte("other-tool"))
	writeRawField(&segChildren, idLibraryVersion, []byte("1.0"))
	writeRawField(&segChildren, idPathSeparator, []byte("/"))
	wrap(&buf, idSegment, &segChildren)

	_, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedLibrary) {
		t.Fatalf("expected ErrUnsupportedLibrary, got %v", err)
	}
}

func TestDecodeRejectsLibraryVersionOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf)
	var segChildren bytes.Buffer
	writeRawField(&segChildren, idLibraryName, []byte(SupportedLibraryName))
	writeRawField(&segChildren, idLibraryVersion, []byte("99.0"))
	writeRawField(&segChildren, idPathSeparator, []byte("/"))
	wrap(&buf, idSegment, &segChildren)

	_, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedLibrary) {
		t.Fatalf("expected ErrUnsupportedLibrary, got %v", err)
	}
}

func TestDecodeAcceptsSupportedLibraryVersions(t *testing.T) {
	for _, version := range []string{"0.1.0", "1.0"} {
		seg := SegmentRecord{LibraryName: SupportedLibraryName, LibraryVersion: version, PathSeparator: "/"}
		if _, err := Decode(Encode(seg)); err != nil {
			t.Fatalf("version %q: unexpected error: %v", version, err)
		}
	}
}
