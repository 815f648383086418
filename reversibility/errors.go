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

import "errors"

var (
	// ErrMalformedContainer marks a TLV stream that cannot be parsed at all:
	// a truncated element header or a payload that runs past the buffer.
	ErrMalformedContainer = errors.New("reversibility: malformed container")

	// ErrUnsupportedDocType marks a container whose DocType is not
	// "rawcooked".
	ErrUnsupportedDocType = errors.New("reversibility: unsupported doctype")

	// ErrUnsupportedVersion marks a container whose DocTypeReadVersion
	// exceeds what this decoder build supports.
	ErrUnsupportedVersion = errors.New("reversibility: unsupported doctype read version")

	// ErrUnsupportedLibrary marks a container whose (LibraryName,
	// LibraryVersion) tuple falls outside the decoder build's supported
	// range.
	ErrUnsupportedLibrary = errors.New("reversibility: unsupported library name or version")

	// ErrMissingTemplate marks a delta-coded field whose track has no
	// template to decode against.
	ErrMissingTemplate = errors.New("reversibility: mask addition field has no template")
)
