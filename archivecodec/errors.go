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

package archivecodec

import "fmt"

// FormatError indicates an unsupported or invalid bundle format.
type FormatError struct {
	Format string
	Reason string
}

func (e FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported bundle format %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("unsupported bundle format: %s", e.Format)
}

// FileNotFoundError indicates a member was not found in the bundle.
type FileNotFoundError struct {
	Bundle       string
	InternalPath string
}

func (e FileNotFoundError) Error() string {
	return fmt.Sprintf("member %q not found in bundle %q", e.InternalPath, e.Bundle)
}

// SizeMismatchError indicates a bundle member's size disagrees with the
// caller's own record of what that member should contain, surfaced by
// VerifyMembers before extraction begins.
type SizeMismatchError struct {
	InternalPath string
	Want, Got    int64
}

func (e SizeMismatchError) Error() string {
	return fmt.Sprintf("member %q size mismatch: want %d bytes, bundle has %d", e.InternalPath, e.Want, e.Got)
}
