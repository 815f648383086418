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

import (
	"log"

	"github.com/avrawcook/rawcook/config"
	"github.com/avrawcook/rawcook/framewriter"
	"github.com/avrawcook/rawcook/internal/hashutil"
	"github.com/avrawcook/rawcook/rawformat"
)

// Options configures one Driver run. Encode reads InputDir and writes
// OutputPath; Decode reads OutputPath and writes (or verifies) into
// InputDir, used here as the reconstruction target directory — the two
// directions share one Options struct since a round-trip test runs both
// with the same paths swapped.
type Options struct {
	InputDir   string
	OutputPath string

	// AcceptTruncated and CheckPadding thread straight into rawformat.Options.
	AcceptTruncated bool
	CheckPadding    bool

	// Hash requests a per-frame MD5 digest be recorded during Encode.
	Hash bool

	// Write and Verify control Decode's framewriter.Options.
	Write         bool
	Verify        bool
	NoOutputCheck bool

	// Config carries the codec choice, worker pool size, and prompt
	// policy this run reads instead of treating them as scattered
	// untyped fields; the zero value runs with config.Default's
	// settings.
	Config config.Config

	// Logger receives phase-transition and per-file diagnostic output.
	// A nil Logger falls back to log.Default(), the same *log.Logger
	// cmd/rawcook's own process-wide logger wraps.
	Logger *log.Logger
}

// Driver runs one Encode or Decode operation and owns the resources the
// run shares across its tracks: the Hashes table, the fault sink, and
// progress state.
type Driver struct {
	opts     Options
	cfg      config.Config
	log      *log.Logger
	Hashes   *hashutil.Table
	Sink     *rawformat.Sink
	Progress *Progress
}

// New returns a Driver configured by opts.
func New(opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		opts:   opts,
		cfg:    opts.Config.Normalize(),
		log:    logger,
		Hashes: hashutil.NewTable(),
		Sink:   rawformat.NewSink(),
	}
}

func (d *Driver) parserOptions() rawformat.Options {
	return rawformat.Options{AcceptTruncated: d.opts.AcceptTruncated, CheckPadding: d.opts.CheckPadding}
}

func (d *Driver) prompter() *framewriter.Prompter {
	return framewriter.NewPrompter(d.cfg.PromptPolicy, d.cfg.Ask)
}

// logPhase reports a phase transition or per-file diagnostic through the
// same plain Printf-style reporting the teacher's own CLIs use, routed
// through a *log.Logger so a caller can redirect or silence it without
// touching Driver itself.
func (d *Driver) logPhase(format string, args ...any) {
	d.log.Printf(format, args...)
}
