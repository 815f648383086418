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

package driver

// durationEpsilonSeconds is the tolerance for cross-stream duration
// agreement: frame-rounding between an audio track's sample count and an
// image sequence's frame count at its nominal frame rate can legitimately
// differ by a fraction of a frame.
const durationEpsilonSeconds = 1.0 / 24.0

// checkCoherency compares every stream's reported duration against the
// first stream's, raising a CoherencyError for the first disagreement
// found beyond durationEpsilonSeconds.
func checkCoherency(names []string, durations []float64) error {
	if len(durations) < 2 {
		return nil
	}
	for i := 1; i < len(durations); i++ {
		diff := durations[i] - durations[0]
		if diff < 0 {
			diff = -diff
		}
		if diff > durationEpsilonSeconds {
			return CoherencyError{
				StreamA: names[0], DurationA: durations[0],
				StreamB: names[i], DurationB: durations[i],
			}
		}
	}
	return nil
}
