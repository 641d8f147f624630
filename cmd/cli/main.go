// Command racer reads a SimulationInput JSON from a file argument (or stdin),
// runs the simulation, and writes the SimulationLog to stdout.
//
//	racer [-format json|msgpack] [input.json]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cxd309/racer-engine/internal/engine"
)

func main() {
	format := flag.String("format", engine.FormatJSON, "output encoding: json or msgpack")
	flag.Parse()

	var (
		data []byte
		err  error
	)

	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	result, err := engine.Run(data, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stdout.Write(result); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
	if *format != engine.FormatMsgpack {
		fmt.Println()
	}
}
