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
	"fmt"
	"strconv"
	"strings"

	"github.com/avrawcook/rawcook/internal/binary"
)

const (
	// DocType is the only doctype this decoder accepts.
	DocType = "rawcooked"
	// DocTypeVersion is the version this encoder writes.
	DocTypeVersion = 1
	// MaxSupportedReadVersion is the highest DocTypeReadVersion this
	// decoder build will accept; containers declaring a higher value use
	// a wire format this build does not understand.
	MaxSupportedReadVersion = 1
)

const (
	// SupportedLibraryName is the only Segment LibraryName this decoder
	// build accepts. The doctype header (above) versions the wire format;
	// LibraryName/LibraryVersion separately identify the writing library
	// itself, matching the original implementation's two independent
	// version checks (see spec.md's "(LibraryName, LibraryVersion) tuple").
	SupportedLibraryName = "rawcook"
	// MinSupportedLibraryMajorVersion and MaxSupportedLibraryMajorVersion
	// bound the LibraryVersion major component this decoder build
	// understands, parsed as the integer before the first '.'.
	MinSupportedLibraryMajorVersion = 0
	MaxSupportedLibraryMajorVersion = 1
)

// writeHeader emits the one-shot Name_EBML preamble.
func writeHeader(buf *bytes.Buffer) {
	var children bytes.Buffer
	writeElement(&children, idDocType, []byte(DocType))
	writeElement(&children, idDocTypeVersion, binary.EncodeVarint(DocTypeVersion))
	writeElement(&children, idDocTypeReadVersion, binary.EncodeVarint(MaxSupportedReadVersion))
	wrap(buf, idNameEBML, &children)
}

// readHeader parses and validates the Name_EBML preamble, rejecting any
// doctype other than "rawcooked" or any read version this build does not
// support.
func readHeader(el tlvElement) error {
	if el.id != idNameEBML {
		return fmt.Errorf("%w: expected container header, got element 0x%x", ErrMalformedContainer, uint64(el.id))
	}
	var docType string
	var readVersion uint64
	haveDocType, haveReadVersion := false, false
	err := readChildren(el.payload, func(child tlvElement) error {
		switch child.id {
		case idDocType:
			docType = string(child.payload)
			haveDocType = true
		case idDocTypeVersion:
			c := binary.NewCursor(child.payload)
			v, _ := c.EBMLVarint()
			_ = v
		case idDocTypeReadVersion:
			c := binary.NewCursor(child.payload)
			v, _ := c.EBMLVarint()
			readVersion = v
			haveReadVersion = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !haveDocType || docType != DocType {
		return fmt.Errorf("%w: %q", ErrUnsupportedDocType, docType)
	}
	if !haveReadVersion || readVersion > MaxSupportedReadVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, readVersion)
	}
	return nil
}

// validateLibrary rejects a Segment whose (LibraryName, LibraryVersion)
// tuple falls outside this decoder build's supported range, before any
// Track or Block is touched.
func validateLibrary(name, version string) error {
	if name != SupportedLibraryName {
		return fmt.Errorf("%w: library name %q", ErrUnsupportedLibrary, name)
	}
	major, err := libraryMajorVersion(version)
	if err != nil {
		return err
	}
	if major < MinSupportedLibraryMajorVersion || major > MaxSupportedLibraryMajorVersion {
		return fmt.Errorf("%w: library version %q", ErrUnsupportedLibrary, version)
	}
	return nil
}

// libraryMajorVersion parses the integer component before the first '.' in
// a LibraryVersion string such as "1.0" or "0.1.0".
func libraryMajorVersion(version string) (int, error) {
	major := version
	if idx := strings.IndexByte(version, '.'); idx >= 0 {
		major = version[:idx]
	}
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("%w: library version %q", ErrUnsupportedLibrary, version)
	}
	return n, nil
}
