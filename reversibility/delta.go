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

// maskAddition computes the byte-wise delta of field against template: both
// sides are implicitly zero-padded to the longer length before subtracting
// modulo 256. The result's length is always max(len(field), len(template)).
func maskAddition(field, template []byte) []byte {
	n := len(field)
	if len(template) > n {
		n = len(template)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var f, t byte
		if i < len(field) {
			f = field[i]
		}
		if i < len(template) {
			t = template[i]
		}
		out[i] = f - t
	}
	return out
}

// applyMaskAddition reverses maskAddition: it adds addition back onto
// template modulo 256 (both implicitly zero-padded to the longer length)
// and then truncates or zero-pads the result to fieldLen, the field's true
// recorded byte length.
func applyMaskAddition(template, addition []byte, fieldLen int) []byte {
	n := len(template)
	if len(addition) > n {
		n = len(addition)
	}
	full := make([]byte, n)
	for i := 0; i < n; i++ {
		var t, a byte
		if i < len(template) {
			t = template[i]
		}
		if i < len(addition) {
			a = addition[i]
		}
		full[i] = t + a
	}
	if fieldLen <= len(full) {
		return full[:fieldLen]
	}
	padded := make([]byte, fieldLen)
	copy(padded, full)
	return padded
}
