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

package framewriter

import "sync"

// Decision is one answer to a conflict-resolution prompt (e.g. "overwrite
// existing output file?").
type Decision int

const (
	// Ask means no sticky answer is recorded yet; the next conflict must
	// invoke the callback.
	Ask Decision = iota
	Yes
	No
	AlwaysYes
	AlwaysNo
)

// AskFunc is the caller-supplied callback a Prompter invokes for a single
// conflict when no sticky AlwaysYes/AlwaysNo answer is already in force.
// cmd/rawcook wires this to a terminal prompt; tests wire it to a canned
// answer.
type AskFunc func(question string) Decision

// Prompter serializes conflict-resolution prompts across every concurrent
// TrackWriter: at most one prompt is outstanding at a time, and once the
// user answers AlwaysYes or AlwaysNo every later conflict is decided
// without invoking ask again.
type Prompter struct {
	mu     sync.Mutex
	sticky Decision
	ask    AskFunc
}

// NewPrompter returns a Prompter seeded with an initial policy. Passing
// AlwaysYes or AlwaysNo makes every Confirm call decide immediately without
// ever invoking ask; passing Ask defers every decision to ask.
func NewPrompter(policy Decision, ask AskFunc) *Prompter {
	return &Prompter{sticky: policy, ask: ask}
}

// Confirm resolves one conflict, identified by question for the callback's
// benefit, to a yes/no answer.
func (p *Prompter) Confirm(question string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.sticky {
	case AlwaysYes:
		return true
	case AlwaysNo:
		return false
	}

	if p.ask == nil {
		return false
	}
	d := p.ask(question)
	if d == AlwaysYes || d == AlwaysNo {
		p.sticky = d
	}
	return d == Yes || d == AlwaysYes
}
