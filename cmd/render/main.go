// Command render compiles a chart definition and prints it as DOT.
//
//	render -f chart.yaml | dot -Tsvg -o chart.svg
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/motionkit/statechart/internal/statechart/chart"
)

func main() {
	path := flag.String("f", "-", "chart definition file (- for stdin)")
	flag.Parse()

	var src []byte
	var err error
	if *path == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(*path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read definition: %v\n", err)
		os.Exit(1)
	}

	ch, err := chart.NewCompiler().Compile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		os.Exit(1)
	}

	dot, err := ch.DOT()
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(dot)
}
