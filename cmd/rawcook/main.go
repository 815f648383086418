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

// Command rawcook packages raw audio/image sequences into a reversible
// container, and reconstructs the original files bit-exactly on demand.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/avrawcook/rawcook/config"
	"github.com/avrawcook/rawcook/driver"
	"github.com/avrawcook/rawcook/framewriter"
)

const appVersion = "0.1.0"

var (
	inputDir   = flag.String("i", "", "input directory (encode) or reconstruction target (decode)")
	outputPath = flag.String("o", "", "container path (required)")

	encodeAction    = flag.Bool("encode", false, "pack the input directory into the container")
	decodeAction    = flag.Bool("decode", false, "reconstruct files from the container")
	infoAction      = flag.Bool("info", false, "print a summary of the container and exit")
	checkAction     = flag.Bool("check", false, "decode and verify without writing files")
	quickCheck      = flag.Bool("quickcheck", false, "like -check, but skip the disk re-read fallback when hashes are missing")
	checkPadding    = flag.Bool("check-padding", false, "fail when DPX padding bits are non-zero (padding is not scanned without this flag)")
	acceptTruncated = flag.Bool("accept-truncated", false, "clamp truncated chunks instead of rejecting them")
	hashFrames      = flag.Bool("hash", false, "record a per-frame MD5 digest while encoding")
	noOutputCheck   = flag.Bool("no-output-check", false, "disable the disk re-read verification fallback")
	workers         = flag.Int("workers", 0, "number of tracks decoded concurrently (0 = all tracks at once)")
	promptPolicy    = flag.String("prompt", "ask", "overwrite policy: ask, always-yes, always-no")
	imageCodec      = flag.String("image-codec", "zstd", "image payload codec: zstd or lzma")
	jsonOutput      = flag.Bool("json", false, "print -info output as JSON")
	quiet           = flag.Bool("quiet", false, "suppress phase/diagnostic logging")
	version         = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -encode|-decode|-info -i <dir> -o <container> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Packages raw audio/image sequences into a bit-exact reversible container.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -encode -i ./scan -o reel.rwck -hash\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -decode -i ./restored -o reel.rwck -check\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -info -o reel.rwck -json\n", os.Args[0])
	}
	flag.Parse()

	if *version {
		fmt.Printf("rawcook version %s\n", appVersion)
		return
	}

	if *outputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -o is required")
		flag.Usage()
		os.Exit(1)
	}

	policy, err := parsePromptPolicy(*promptPolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "rawcook: ", log.LstdFlags)
	if *quiet {
		logger.SetOutput(io.Discard)
	}

	opts := driver.Options{
		InputDir:        *inputDir,
		OutputPath:      *outputPath,
		AcceptTruncated: *acceptTruncated,
		CheckPadding:    *checkPadding,
		Hash:            *hashFrames,
		Write:           !*checkAction && !*quickCheck,
		Verify:          *checkAction || *quickCheck,
		NoOutputCheck:   *noOutputCheck || *quickCheck,
		Logger:          logger,
		Config: config.Config{
			ImageCodec:   config.ImageCodec(strings.ToLower(*imageCodec)),
			WorkerCount:  *workers,
			PromptPolicy: policy,
			Ask:          askStdin,
		},
	}
	d := driver.New(opts)

	switch {
	case *infoAction:
		runInfo(d)
	case *encodeAction:
		runEncode(d)
	case *decodeAction || *checkAction || *quickCheck:
		runDecode(d)
	default:
		fmt.Fprintln(os.Stderr, "Error: one of -encode, -decode, -check, -quickcheck, or -info is required")
		flag.Usage()
		os.Exit(1)
	}
}

func runEncode(d *driver.Driver) {
	if *inputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required for -encode")
		os.Exit(1)
	}
	if err := d.Encode(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDecode(d *driver.Driver) {
	if *inputDir == "" && *decodeAction {
		fmt.Fprintln(os.Stderr, "Error: -i is required for -decode")
		os.Exit(1)
	}
	if err := d.Decode(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInfo(d *driver.Driver) {
	summary, err := d.Inspect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("Library: %s %s\n", summary.LibraryName, summary.LibraryVersion)
	for i, s := range summary.Streams {
		fmt.Printf("Track %d: %s, %d frames", i, s.Class, s.FrameCount)
		if s.SampleRate > 0 {
			fmt.Printf(", %d Hz, %d-bit, %d ch", s.SampleRate, s.BitDepth, s.Channels)
		} else if s.BitDepth > 0 {
			fmt.Printf(", %d-bit, %d ch", s.BitDepth, s.Channels)
		}
		if s.ImageCodec != "" {
			fmt.Printf(", %s codec", s.ImageCodec)
		}
		fmt.Println()
	}
}

func parsePromptPolicy(s string) (framewriter.Decision, error) {
	switch strings.ToLower(s) {
	case "ask":
		return framewriter.Ask, nil
	case "always-yes":
		return framewriter.AlwaysYes, nil
	case "always-no":
		return framewriter.AlwaysNo, nil
	default:
		return framewriter.Ask, fmt.Errorf("unknown -prompt value %q (want ask, always-yes, or always-no)", s)
	}
}

// askStdin is the interactive AskFunc wired to cmd/rawcook's own stdin,
// keeping the framewriter package itself free of any I/O dependency.
func askStdin(question string) framewriter.Decision {
	fmt.Fprintf(os.Stderr, "%s [y/n/Y=always/N=never]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return framewriter.No
	}
	switch strings.TrimSpace(line) {
	case "y":
		return framewriter.Yes
	case "Y":
		return framewriter.AlwaysYes
	case "N":
		return framewriter.AlwaysNo
	default:
		return framewriter.No
	}
}
