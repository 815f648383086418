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
	"fmt"

	"github.com/avrawcook/rawcook/internal/binary"
)

// Decode parses a container byte stream back into a SegmentRecord,
// rejecting the container outright (before any Track or Block is touched)
// if its header declares an unsupported doctype or read version, or if its
// Segment declares a (LibraryName, LibraryVersion) tuple this decoder build
// does not support.
func Decode(data []byte) (SegmentRecord, error) {
	c := binary.NewCursor(data)

	headerEl, err := readElement(c)
	if err != nil {
		return SegmentRecord{}, fmt.Errorf("read container header: %w", err)
	}
	if err := readHeader(headerEl); err != nil {
		return SegmentRecord{}, err
	}

	segEl, err := readElement(c)
	if err != nil {
		return SegmentRecord{}, fmt.Errorf("read segment: %w", err)
	}
	if segEl.id != idSegment {
		return SegmentRecord{}, fmt.Errorf("%w: expected segment element, got 0x%x", ErrMalformedContainer, uint64(segEl.id))
	}

	var seg SegmentRecord
	var haveLibraryVersion bool
	err = readChildren(segEl.payload, func(el tlvElement) error {
		switch el.id {
		case idLibraryName:
			v, err := readRawField(el)
			if err != nil {
				return err
			}
			seg.LibraryName = string(v)
		case idLibraryVersion:
			v, err := readRawField(el)
			if err != nil {
				return err
			}
			seg.LibraryVersion = string(v)
			haveLibraryVersion = true
			// LibraryName/LibraryVersion are always written before any
			// Track element (see Encode); validating as soon as both are
			// known rejects an unsupported writer before any Track or
			// Block is parsed, the same way readHeader rejects a bad
			// doctype before the Segment element is even reached.
			if err := validateLibrary(seg.LibraryName, seg.LibraryVersion); err != nil {
				return err
			}
		case idPathSeparator:
			v, err := readRawField(el)
			if err != nil {
				return err
			}
			seg.PathSeparator = string(v)
		case idTrack:
			t, err := decodeTrack(el)
			if err != nil {
				return err
			}
			seg.Tracks = append(seg.Tracks, t)
		}
		return nil
	})
	if err != nil {
		return SegmentRecord{}, err
	}
	if !haveLibraryVersion {
		return SegmentRecord{}, fmt.Errorf("%w: missing library version", ErrUnsupportedLibrary)
	}
	return seg, nil
}

func decodeTrack(el tlvElement) (TrackRecord, error) {
	children, err := collectChildren(el.payload)
	if err != nil {
		return TrackRecord{}, err
	}

	var t TrackRecord
	var templateIn [][]byte
	var foldedBlockElements []tlvElement

	for _, child := range children {
		switch child.id {
		case idUnique:
			t.Unique = true
		case idTrackMaskBaseFileName:
			v, err := readRawField(child)
			if err != nil {
				return TrackRecord{}, err
			}
			t.Template.Filename = string(v)
		case idTrackMaskBaseBeforeData:
			v, err := readRawField(child)
			if err != nil {
				return TrackRecord{}, err
			}
			t.Template.Before = v
		case idTrackMaskBaseAfterData:
			v, err := readRawField(child)
			if err != nil {
				return TrackRecord{}, err
			}
			t.Template.After = v
		case idTrackMaskBaseInData:
			v, err := readRawField(child)
			if err != nil {
				return TrackRecord{}, err
			}
			templateIn = append(templateIn, v)
		case idBlock:
			frame, err := decodeBlock(child, &t.Template)
			if err != nil {
				return TrackRecord{}, err
			}
			t.Frames = append(t.Frames, frame)
		case idBlockFileName, idBlockBeforeData, idBlockAfterData, idBlockInData,
			idFileSize, idFileMD5, idAttachment:
			foldedBlockElements = append(foldedBlockElements, child)
		}
	}
	t.Template.In = templateIn

	if t.Unique && len(foldedBlockElements) > 0 {
		frame, err := decodeFrameFromElements(foldedBlockElements, nil)
		if err != nil {
			return TrackRecord{}, err
		}
		t.Frames = []FrameRecord{frame}
	}
	return t, nil
}

func decodeBlock(el tlvElement, template *TemplateRecord) (FrameRecord, error) {
	children, err := collectChildren(el.payload)
	if err != nil {
		return FrameRecord{}, err
	}
	return decodeFrameFromElements(children, template)
}

// decodeFrameFromElements reconstructs one frame's fields from its TLV
// children. template == nil means the fields are stored raw (a Unique
// track); otherwise delta-coded fields are reversed against it.
func decodeFrameFromElements(elems []tlvElement, template *TemplateRecord) (FrameRecord, error) {
	var frame FrameRecord
	var ins [][]byte
	templateInIdx := 0

	for _, el := range elems {
		switch el.id {
		case idBlockFileName:
			v, err := readRawField(el)
			if err != nil {
				return FrameRecord{}, err
			}
			frame.Filename = string(v)
		case idBlockMaskAdditionFileName:
			if template == nil {
				return FrameRecord{}, ErrMissingTemplate
			}
			v, err := readDeltaField(el, []byte(template.Filename))
			if err != nil {
				return FrameRecord{}, err
			}
			frame.Filename = string(v)
		case idBlockBeforeData:
			v, err := decodeMaybeDeltaField(el, template, func(t *TemplateRecord) []byte { return t.Before })
			if err != nil {
				return FrameRecord{}, err
			}
			frame.Before = v
		case idBlockAfterData:
			v, err := decodeMaybeDeltaField(el, template, func(t *TemplateRecord) []byte { return t.After })
			if err != nil {
				return FrameRecord{}, err
			}
			frame.After = v
		case idBlockInData:
			var tmplIn []byte
			if template != nil && templateInIdx < len(template.In) {
				tmplIn = template.In[templateInIdx]
			}
			templateInIdx++
			var v []byte
			var err error
			if template != nil {
				v, err = readDeltaField(el, tmplIn)
			} else {
				v, err = readRawField(el)
			}
			if err != nil {
				return FrameRecord{}, err
			}
			ins = append(ins, v)
		case idFileSize:
			c := binary.NewCursor(el.payload)
			v, _ := c.EBMLVarint()
			frame.FileSize = int64(v)
		case idFileMD5:
			frame.Hash = append([]byte(nil), el.payload...)
		case idAttachment:
			frame.IsAttachment = true
		}
	}
	frame.In = ins
	return frame, nil
}

func decodeMaybeDeltaField(el tlvElement, template *TemplateRecord, pick func(*TemplateRecord) []byte) ([]byte, error) {
	if template == nil {
		return readRawField(el)
	}
	return readDeltaField(el, pick(template))
}

func readRawField(el tlvElement) ([]byte, error) {
	return decodeFieldValue(el.payload)
}

func readDeltaField(el tlvElement, template []byte) ([]byte, error) {
	c := binary.NewCursor(el.payload)
	fieldLen, unlimited := c.EBMLVarint()
	if unlimited || c.Overflowed() {
		return nil, fmt.Errorf("%w: delta field length prefix", ErrMalformedContainer)
	}
	addition, err := decodeFieldValue(el.payload[c.Offset():])
	if err != nil {
		return nil, err
	}
	return applyMaskAddition(template, addition, int(fieldLen)), nil
}
