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
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/avrawcook/rawcook/rawformat"
)

// containerMagic opens every output file this driver writes. The
// reversibility TLV document nested inside (see reversibility/header.go)
// carries its own "rawcooked" doctype tag; this magic is one layer further
// out, identifying the outer framing that pairs that document with the
// codec-compressed essence bytes the external muxer would otherwise carry.
var containerMagic = [4]byte{'R', 'W', 'C', 'K'}

// StreamManifest is the per-track bookkeeping the reversibility document
// itself has no room for: which flavor (and therefore which payload codec)
// a track's frames were encoded with. A FLAC stream recovers sample rate
// and channel count from its own StreamInfo block on decode, but not the
// byte-order/width convention WAV vs. AIFF used to pack samples before
// encoding, so this is carried alongside rather than re-derived.
type StreamManifest struct {
	Class       rawformat.Class
	AudioFlavor *rawformat.AudioFlavor
	ImageFlavor *rawformat.ImageFlavor
	FrameCount  int

	// ImageCodecName records which config.ImageCodec an image-flavored
	// track's essence was compressed with, since that choice is a
	// per-run Config setting rather than something recoverable from the
	// flavor alone. Empty for audio and attachment tracks.
	ImageCodecName string
}

// Manifest is the whole of the outer container's non-reversibility,
// non-essence bookkeeping.
type Manifest struct {
	LibraryName    string
	LibraryVersion string
	Streams        []StreamManifest
}

// writeManifest gob-encodes and gzips m, the same gob.Encoder-over-
// gzip.Writer idiom the teacher uses for its game database
// (database.go's SaveDatabase).
func writeManifest(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("flush manifest gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func readManifest(data []byte) (Manifest, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	var m Manifest
	if err := gob.NewDecoder(gz).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func writeSection(w io.Writer, data []byte) error {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write section length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write section: %w", err)
	}
	return nil
}

func readSection(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read section length: %w", err)
	}
	n := binary.BigEndian.Uint64(lenBuf[:])
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read section: %w", err)
	}
	return data, nil
}

// writeContainer assembles the output file: magic, manifest, reversibility
// metadata, then one essence section per track containing that track's
// frames' codec-compressed payload, each individually length-prefixed so
// decode can split them back apart without re-parsing the reversibility
// document first.
func writeContainer(w io.Writer, manifest Manifest, reversibilityData []byte, trackEssences [][][]byte) error {
	if _, err := w.Write(containerMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	manifestBytes, err := writeManifest(manifest)
	if err != nil {
		return err
	}
	if err := writeSection(w, manifestBytes); err != nil {
		return err
	}
	if err := writeSection(w, reversibilityData); err != nil {
		return err
	}
	for _, frames := range trackEssences {
		var track bytes.Buffer
		for _, frame := range frames {
			if err := writeSection(&track, frame); err != nil {
				return err
			}
		}
		if err := writeSection(w, track.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// readContainer is writeContainer's inverse.
func readContainer(r io.Reader) (Manifest, []byte, [][][]byte, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Manifest{}, nil, nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != containerMagic {
		return Manifest{}, nil, nil, fmt.Errorf("%w: bad container magic", ErrMalformedContainer)
	}

	manifestBytes, err := readSection(r)
	if err != nil {
		return Manifest{}, nil, nil, err
	}
	manifest, err := readManifest(manifestBytes)
	if err != nil {
		return Manifest{}, nil, nil, err
	}

	reversibilityData, err := readSection(r)
	if err != nil {
		return Manifest{}, nil, nil, err
	}

	trackEssences := make([][][]byte, len(manifest.Streams))
	for i, stream := range manifest.Streams {
		trackBytes, err := readSection(r)
		if err != nil {
			return Manifest{}, nil, nil, err
		}
		trackReader := bytes.NewReader(trackBytes)
		frames := make([][]byte, 0, stream.FrameCount)
		for j := 0; j < stream.FrameCount; j++ {
			frame, err := readSection(trackReader)
			if err != nil {
				return Manifest{}, nil, nil, fmt.Errorf("track %d frame %d: %w", i, j, err)
			}
			frames = append(frames, frame)
		}
		trackEssences[i] = frames
	}

	return manifest, reversibilityData, trackEssences, nil
}
