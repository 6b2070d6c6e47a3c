// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for revofoto.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdList Command = iota
	CmdGallery
	CmdExport
	CmdWipe
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	EntryIndex  int    // gallery entry (export)
	Output      string // output path (export)
	NoWatermark bool   // skip stamping (export)
	Confirm     bool   // destructive-action confirmation (wipe)

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `revofoto - photo enhancement chat, offline core

Usage:
  revofoto list                 List stored conversations
  revofoto gallery              List gallery entries and their adjustments
  revofoto export <index>       Export a gallery entry with watermark
    --output FILE, -o FILE      Output path (default: derived from entry)
    --no-watermark              Skip the watermark stamp
  revofoto wipe --confirm       Delete ALL stored data
  revofoto version              Show version information
  revofoto help                 Show this help

Global flags:
  --quiet, -q                   Suppress informational output
  --verbose, -v                 Debug logging
  --json                        JSON output where supported

Configuration:
  ~/.revofoto/config.toml       Data dir, watermark source, export quality
  REVOFOTO_* environment        Overrides (DATA_DIR, WATERMARK_URL, ...)
`

// Parse reads os.Args and returns the command plus parsed arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an explicit argument list (testable form of Parse).
func ParseArgs(argv []string) (Command, Args) {
	var parsed Args
	parsed.EntryIndex = -1

	var remaining []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "--quiet", "-q":
			parsed.Quiet = true
		case "--verbose", "-v":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--confirm":
			parsed.Confirm = true
		case "--no-watermark":
			parsed.NoWatermark = true
		case "--output", "-o":
			if i+1 < len(argv) {
				i++
				parsed.Output = argv[i]
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	if len(remaining) == 0 {
		return CmdHelp, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "list", "ls", "conversations":
		return CmdList, parsed

	case "gallery", "g":
		return CmdGallery, parsed

	case "export":
		if len(remaining) > 0 {
			if n, err := strconv.Atoi(remaining[0]); err == nil {
				parsed.EntryIndex = n
			}
		}
		return CmdExport, parsed

	case "wipe", "clear":
		return CmdWipe, parsed

	case "version", "--version":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("revofoto %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
