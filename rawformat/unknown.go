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

package rawformat

// unknownParser is the terminal variant: every file reaches it if no other
// variant detects, and it always succeeds by treating the entire file as
// non-payload content to be bundled verbatim alongside the reversibility
// container rather than split into Payload/Before/After ranges.
type unknownParser struct{}

func (unknownParser) Name() Variant { return VariantUnknown }

func (unknownParser) Parse(_ string, buf []byte, _ Options, _ *Sink) Result {
	return Result{
		Variant:   VariantUnknown,
		Detected:  true,
		Supported: true,
		Before:    Range{0, len(buf)},
	}
}
