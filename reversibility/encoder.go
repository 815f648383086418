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

	"github.com/avrawcook/rawcook/internal/binary"
)

// Encode serializes a whole segment (one run's worth of reversibility
// data) into the container byte stream: the Name_EBML header, followed by
// the Segment element and its Tracks/Blocks.
func Encode(seg SegmentRecord) []byte {
	var out bytes.Buffer
	writeHeader(&out)

	var segChildren bytes.Buffer
	writeRawField(&segChildren, idLibraryName, []byte(seg.LibraryName))
	writeRawField(&segChildren, idLibraryVersion, []byte(seg.LibraryVersion))
	writeRawField(&segChildren, idPathSeparator, []byte(seg.PathSeparator))
	for _, t := range seg.Tracks {
		encodeTrack(&segChildren, t)
	}
	wrap(&out, idSegment, &segChildren)
	return out.Bytes()
}

func encodeTrack(buf *bytes.Buffer, t TrackRecord) {
	var children bytes.Buffer
	if t.Unique {
		writeElement(&children, idUnique, nil)
		if len(t.Frames) > 0 {
			writeFrameFields(&children, t.Frames[0], nil)
		}
	} else {
		writeRawField(&children, idTrackMaskBaseFileName, []byte(t.Template.Filename))
		writeRawField(&children, idTrackMaskBaseBeforeData, t.Template.Before)
		writeRawField(&children, idTrackMaskBaseAfterData, t.Template.After)
		for _, in := range t.Template.In {
			writeRawField(&children, idTrackMaskBaseInData, in)
		}
		for _, f := range t.Frames {
			var blockChildren bytes.Buffer
			writeFrameFields(&blockChildren, f, &t.Template)
			wrap(&children, idBlock, &blockChildren)
		}
	}
	wrap(buf, idTrack, &children)
}

// writeFrameFields serializes one frame's fields. template == nil means
// the owning track is Unique: fields are stored raw under the Block's
// plain (non-delta) element IDs. A non-nil template means every
// delta-able field is stored as a mask addition against it, even for a
// track's very first frame (whose addition against an identical template
// is simply all zero bytes, and compresses accordingly).
func writeFrameFields(buf *bytes.Buffer, frame FrameRecord, template *TemplateRecord) {
	if template == nil {
		writeRawField(buf, idBlockFileName, []byte(frame.Filename))
		writeRawField(buf, idBlockBeforeData, frame.Before)
		writeRawField(buf, idBlockAfterData, frame.After)
		for _, in := range frame.In {
			writeRawField(buf, idBlockInData, in)
		}
	} else {
		writeDeltaField(buf, idBlockMaskAdditionFileName, []byte(frame.Filename), []byte(template.Filename))
		writeDeltaField(buf, idBlockBeforeData, frame.Before, template.Before)
		writeDeltaField(buf, idBlockAfterData, frame.After, template.After)
		n := len(frame.In)
		if len(template.In) > n {
			n = len(template.In)
		}
		for i := 0; i < n; i++ {
			var f, t []byte
			if i < len(frame.In) {
				f = frame.In[i]
			}
			if i < len(template.In) {
				t = template.In[i]
			}
			writeDeltaField(buf, idBlockInData, f, t)
		}
	}
	writeElement(buf, idFileSize, binary.EncodeVarint(uint64(frame.FileSize)))
	if frame.Hash != nil {
		writeElement(buf, idFileMD5, frame.Hash)
	}
	if frame.IsAttachment {
		writeElement(buf, idAttachment, nil)
	}
}

func writeRawField(buf *bytes.Buffer, id elementID, field []byte) {
	writeElement(buf, id, encodeFieldValue(field))
}

func writeDeltaField(buf *bytes.Buffer, id elementID, field, template []byte) {
	addition := maskAddition(field, template)
	var payload bytes.Buffer
	payload.Write(binary.EncodeVarint(uint64(len(field))))
	payload.Write(encodeFieldValue(addition))
	writeElement(buf, id, payload.Bytes())
}
