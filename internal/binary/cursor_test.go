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

package binary

import "testing"

func TestCursorFixedWidth(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	if got := c.X1(); got != 0x01 {
		t.Fatalf("X1 = %#x, want 0x01", got)
	}
	if got := c.B2(); got != 0x0203 {
		t.Fatalf("B2 = %#x, want 0x0203", got)
	}
	if got := c.L2(); got != 0x0504 {
		t.Fatalf("L2 = %#x, want 0x0504", got)
	}
	if c.Overflowed() {
		t.Fatalf("cursor overflowed prematurely")
	}
}

func TestCursorOverflowSticky(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x01, 0x02})
	if got := c.B4(); got != 0 {
		t.Fatalf("B4 past end = %#x, want 0", got)
	}
	if !c.Overflowed() {
		t.Fatal("expected overflow fault")
	}
	if got := c.X1(); got != 0 {
		t.Fatalf("X1 after fault = %#x, want 0 (fault suppresses further reads)", got)
	}
	c.Reset()
	if c.Overflowed() {
		t.Fatal("Reset should clear the fault")
	}
}

func TestCursorEBMLVarintRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []uint64{0, 1, 126, 127, 128, 16383, 16384, 1 << 27, 1 << 40}
	for _, v := range cases {
		enc := EncodeVarint(v)
		c := NewCursor(enc)
		got, unlimited := c.EBMLVarint()
		if unlimited {
			t.Fatalf("value %d: unexpected Unlimited", v)
		}
		if got != v {
			t.Fatalf("value %d: round trip got %d (encoded %x)", v, got, enc)
		}
		if c.Offset() != len(enc) {
			t.Fatalf("value %d: consumed %d bytes, encoding is %d bytes", v, c.Offset(), len(enc))
		}
	}
}

func TestCursorEBMLVarintUnlimited(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x00, 0xFF})
	_, unlimited := c.EBMLVarint()
	if !unlimited {
		t.Fatal("leading zero byte should decode as Unlimited")
	}
}

func TestCursorBF10Denormal(t *testing.T) {
	t.Parallel()

	// Exponent field all zero: denormal, maps to 0 rather than erroring.
	c := NewCursor(make([]byte, 10))
	if got := c.BF10(); got != 0 {
		t.Fatalf("BF10 denormal = %v, want 0", got)
	}
}
