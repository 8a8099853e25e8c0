// Command lwp-decode decodes LWP frames given as hex.
//
// Frames are read from the arguments, or one input line at a time from
// stdin when there are none. A line may hold several frames back to back;
// they are split using the length field of each header.
//
// Usage:
//
//	lwp-decode [flags] [hex...]
//
// Flags:
//
//	-format string   Output format: text, json, yaml (default "text")
//	-raw             Include the frame bytes in the output
//
// Examples:
//
//	# Decode a Port Output Command
//	lwp-decode "09 00 81 10 11 07 32 64 00"
//
//	# Decode a capture exported as hex, one frame sequence per line
//	lwp-decode -format json < frames.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	format := flag.String("format", "text", "Output format: text, json, yaml")
	raw := flag.Bool("raw", false, "Include the frame bytes in the output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lwp-decode - Decode LWP frames given as hex\n\nUsage:\n  lwp-decode [flags] [hex...]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	out, err := newPrinter(os.Stdout, *format, *raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var input io.Reader = os.Stdin
	if flag.NArg() > 0 {
		input = strings.NewReader(strings.Join(flag.Args(), "\n"))
	}

	failed, err := run(input, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// run decodes every line of input and returns how many frames failed.
func run(input io.Reader, out printer) (int, error) {
	failed := 0
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, r := range decodeLine(line) {
			if r.Error != "" {
				failed++
			}
			if err := out.print(r); err != nil {
				return failed, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, err
	}
	return failed, out.flush()
}
