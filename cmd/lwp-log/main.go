// Command lwp-log views and analyzes LWP protocol capture files.
//
// Capture files are written by lwp-hub and lwp-host with the
// -protocol-log flag.
//
// Usage:
//
//	lwp-log <command> [flags] <file.lwplog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	lwp-log view hub.lwplog
//
//	# View only port output commands
//	lwp-log view -type PortOutputCommand hub.lwplog
//
//	# View buffer state changes of port 0x00
//	lwp-log view -category state -port 0 hub.lwplog
//
//	# Export to CSV
//	lwp-log export -format csv -o hub.csv hub.lwplog
//
//	# Filter by connection and save to new file
//	lwp-log filter -conn-id abc12345 -o filtered.lwplog hub.lwplog
//
//	# Show statistics
//	lwp-log stats hub.lwplog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lego-wireless/lwp-go/cmd/lwp-log/commands"
	"github.com/lego-wireless/lwp-go/pkg/log"
)

const usage = `lwp-log - LWP Protocol Log Analyzer

Usage:
  lwp-log <command> [flags] <file.lwplog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "lwp-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "lwp-log %s - %s\n\nUsage:\n  lwp-log %s [flags] <file%s>\n\nFlags:\n", name, summary, name, log.FileExt)
		fs.PrintDefaults()
	}
	return fs
}

func addFilterFlags(fs *flag.FlagSet, opts *commands.FilterOptions) {
	fs.StringVar(&opts.ConnID, "conn-id", "", "Filter by connection ID")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, service)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&opts.Type, "type", "", "Filter by message type (name or number)")
	fs.StringVar(&opts.Port, "port", "", "Filter by port ID")
}

// parseArgs parses args and returns the log path and filter.
func parseArgs(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	var filter log.Filter
	if opts != nil {
		var err error
		if filter, err = opts.Build(); err != nil {
			fail(err)
		}
	}
	return fs.Arg(0), filter
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View log file in human-readable format")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)

	path, filter := parseArgs(fs, &opts, args)
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)

	path, filter := parseArgs(fs, &opts, args)
	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	var opts commands.FilterOptions
	addFilterFlags(fs, &opts)

	path, filter := parseArgs(fs, &opts, args)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the log file")
	path, _ := parseArgs(fs, nil, args)
	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
