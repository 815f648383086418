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

// Package reversibility implements the tag-length-value container that
// carries everything needed to reconstruct a raw file bit-exactly from its
// compressed payload: the per-frame Before/After/In byte ranges, file
// names, sizes and hashes, stored as deltas against a per-track template
// wherever a sequence makes that cheap.
package reversibility

import (
	"bytes"
	"fmt"

	"github.com/avrawcook/rawcook/internal/binary"
)

// elementID names a node of the TLV tree. Both element IDs and element
// sizes are written using the same EBML-style variable length integer
// (internal/binary.EncodeVarint / Cursor.EBMLVarint); the hex values below
// are this format's own element numbering, not borrowed from any external
// container spec.
type elementID uint64

const (
	idNameEBML           elementID = 0x0A45DFA3 // file-level: container magic/doctype group
	idDocType            elementID = 0x0282     // Name_EBML child: "rawcooked"
	idDocTypeVersion     elementID = 0x0287     // Name_EBML child
	idDocTypeReadVersion elementID = 0x0285     // Name_EBML child

	idSegment elementID = 0x7273 // top: library identity, path separator, tracks
	idTrack   elementID = 0x7274 // top: per-stream template + frames
	idBlock   elementID = 0x7262 // top, or folded into Track when Unique: one frame

	idBlockFileName             elementID = 0x10 // Block: raw or zlib-compressed full name
	idBlockMaskAdditionFileName elementID = 0x11 // Block: delta against the track template name
	idTrackMaskBaseFileName     elementID = 0x12 // Track: the template name itself

	idBlockBeforeData         elementID = 0x01 // Block: raw or MaskAddition
	idBlockAfterData          elementID = 0x02 // Block: raw or MaskAddition
	idTrackMaskBaseBeforeData elementID = 0x03 // Track: template Before bytes
	idTrackMaskBaseAfterData  elementID = 0x04 // Track: template After bytes

	idBlockInData         elementID = 0x05 // Block: raw or MaskAddition, one per In range
	idTrackMaskBaseInData elementID = 0x06 // Track: template In-range bytes

	idFileMD5    elementID = 0x20
	idFileSHA1   elementID = 0x21
	idFileSHA256 elementID = 0x22

	idLibraryName    elementID = 0x70
	idLibraryVersion elementID = 0x71
	idPathSeparator  elementID = 0x72
	idUnique         elementID = 0x73 // Track: presence marks the stream single-file
	idFileSize       elementID = 0x74 // Block: the frame's true total byte count
	idAttachment     elementID = 0x75 // Block: presence marks the frame as a carried-verbatim attachment
)

// writeElement appends one complete TLV node (id, size, payload) to buf.
func writeElement(buf *bytes.Buffer, id elementID, payload []byte) {
	buf.Write(binary.EncodeVarint(uint64(id)))
	buf.Write(binary.EncodeVarint(uint64(len(payload))))
	buf.Write(payload)
}

// wrap builds a container element's payload from its already-serialized
// children and writes it under id.
func wrap(buf *bytes.Buffer, id elementID, children *bytes.Buffer) {
	writeElement(buf, id, children.Bytes())
}

// tlvElement is one decoded (id, payload) pair, with payload still opaque
// to the caller — a leaf field's raw bytes, or a container's child stream.
type tlvElement struct {
	id      elementID
	payload []byte
}

// readElement reads one TLV node from c, honoring a maximum number of
// remaining bytes the caller still owns (callers walking a container's
// children pass the bytes left in that container, not the whole buffer).
func readElement(c *binary.Cursor) (tlvElement, error) {
	id, unlimited := c.EBMLVarint()
	if unlimited {
		return tlvElement{}, fmt.Errorf("%w: element ID has unlimited marker", ErrMalformedContainer)
	}
	size, sizeUnlimited := c.EBMLVarint()
	if sizeUnlimited {
		return tlvElement{}, fmt.Errorf("%w: element size has unlimited marker", ErrMalformedContainer)
	}
	if c.Overflowed() {
		return tlvElement{}, fmt.Errorf("%w: truncated element header", ErrMalformedContainer)
	}
	payload := c.Bytes(int(size))
	if c.Overflowed() {
		return tlvElement{}, fmt.Errorf("%w: element payload runs past end of buffer", ErrMalformedContainer)
	}
	return tlvElement{id: elementID(id), payload: payload}, nil
}

// readChildren walks every TLV node inside payload in order, calling visit
// for each. visit returning an error stops the walk and propagates it.
func readChildren(payload []byte, visit func(tlvElement) error) error {
	c := binary.NewCursor(payload)
	for c.Len() > 0 {
		el, err := readElement(c)
		if err != nil {
			return err
		}
		if err := visit(el); err != nil {
			return err
		}
	}
	return nil
}

// collectChildren gathers every TLV node inside payload into a slice, for
// callers that need random access (the Unique-folding case mixes Block
// field IDs directly among a Track's other children).
func collectChildren(payload []byte) ([]tlvElement, error) {
	var out []tlvElement
	err := readChildren(payload, func(el tlvElement) error {
		out = append(out, el)
		return nil
	})
	return out, err
}
