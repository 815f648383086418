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

import "sync"

// Progress tracks one run's completion state and honors pause requests from
// the caller (a CLI SIGTSTP handler, a GUI pause button) without the
// workers themselves needing to know why they stopped.
type Progress struct {
	mu        sync.Mutex
	cond      *sync.Cond
	paused    bool
	done      bool
	total     int
	completed int
}

// NewProgress returns a Progress for a run expected to process total
// frames.
func NewProgress(total int) *Progress {
	p := &Progress{total: total}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Pause suspends WaitIfPaused callers until Resume is called.
func (p *Progress) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume releases every caller blocked in WaitIfPaused.
func (p *Progress) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	p.cond.Broadcast()
}

// IsPaused reports the current pause state.
func (p *Progress) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// WaitIfPaused blocks the calling worker while the run is paused.
func (p *Progress) WaitIfPaused() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.paused {
		p.cond.Wait()
	}
}

// Advance records n more frames completed.
func (p *Progress) Advance(n int) {
	p.mu.Lock()
	p.completed += n
	p.mu.Unlock()
}

// Completed reports how many frames have completed so far.
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Total reports the run's expected frame count.
func (p *Progress) Total() int {
	return p.total
}

// End marks the run finished; IsEnd reports the flag it sets.
func (p *Progress) End() {
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// IsEnd reports whether End has been called.
func (p *Progress) IsEnd() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
