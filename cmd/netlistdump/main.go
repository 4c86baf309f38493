// Command netlistdump loads a netlist JSON file (the same gates[]/wires[]
// shape the kernel accepts via the "init" message) and renders it to
// Graphviz .dot for offline inspection -- a static debug dump, not the
// interactive canvas renderer.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/circuitkit/hwkernel/sim"
)

type netlistFile struct {
	Gates []sim.ComponentDescriptor `json:"gates"`
	Wires []sim.WireDescriptor      `json:"wires"`
}

func main() {
	in := flag.String("netlist", "", "path to a netlist JSON file (gates[]/wires[])")
	out := flag.String("out", "", "path to write the .dot file to (default: stdout)")
	flag.Parse()

	logger := log.New(os.Stderr, "netlistdump: ", 0)

	if *in == "" {
		logger.Fatal("-netlist is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		logger.Fatal(err)
	}
	defer f.Close()

	var nl netlistFile
	if err := json.NewDecoder(f).Decode(&nl); err != nil {
		logger.Fatal(err)
	}

	w := os.Stdout
	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			logger.Fatal(err)
		}
		defer of.Close()
		w = of
	}

	memviz.Map(w, &nl)
}
