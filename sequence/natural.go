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

// Package sequence groups individual still-image files (DPX, TIFF) into
// numbered frame sequences, the way a directory of "shot01_001234.dpx"
// through "shot01_005678.dpx" files is recognized as one stream rather
// than thousands of independent attachments.
package sequence

// NaturalLess reports whether a sorts before b under natural order: runs of
// digits compare by numeric value rather than lexicographically, so
// "frame2.dpx" sorts before "frame10.dpx". Non-digit runs compare as plain
// byte sequences. This is the comparator every other part of the package
// assumes file lists are sorted with.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ai, aEnd := i, i
			for aEnd < len(a) && isDigit(a[aEnd]) {
				aEnd++
			}
			bj, bEnd := j, j
			for bEnd < len(b) && isDigit(b[bEnd]) {
				bEnd++
			}
			an := trimLeadingZeros(a[ai:aEnd])
			bn := trimLeadingZeros(b[bj:bEnd])
			if len(an) != len(bn) {
				return len(an) < len(bn)
			}
			if an != bn {
				return an < bn
			}
			// Equal numeric value: more leading zeros (the longer raw run)
			// sorts first, matching how a zero-padded counter overtakes an
			// unpadded one at the same value.
			if (aEnd - ai) != (bEnd - bj) {
				return (aEnd - ai) > (bEnd - bj)
			}
			i, j = aEnd, bEnd
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
