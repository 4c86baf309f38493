// Command hwsimctl is a line-oriented console front-end for the simulation
// kernel: it loads a netlist, runs the driver loop at a configurable pace,
// and lets the operator toggle the first TOGGLE and pulse the first PULSE of
// the netlist with single keystrokes read from a raw-mode terminal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/circuitkit/hwkernel/driver"
	"github.com/circuitkit/hwkernel/sim"
)

type netlistFile struct {
	Gates []sim.ComponentDescriptor `json:"gates"`
	Wires []sim.WireDescriptor      `json:"wires"`
}

func main() {
	netlistPath := flag.String("netlist", "", "path to a netlist JSON file (gates[]/wires[])")
	msPerTick := flag.Int("speed", 50, "driver pacing in milliseconds per simulated tick")
	flag.Parse()

	logger := log.New(os.Stderr, "hwsimctl: ", 0)

	if *netlistPath == "" {
		logger.Fatal("-netlist is required")
	}
	nl, err := loadNetlist(*netlistPath)
	if err != nil {
		logger.Fatal(err)
	}

	kernel := sim.NewKernel(sim.DefaultConfig())
	if err := kernel.Initialize(nl.Gates, nl.Wires); err != nil {
		logger.Fatal(err)
	}
	kernel.Run()

	drv := driver.New(kernel, *msPerTick)
	drv.OnSnapshot(func(s sim.Snapshot) {
		// Real deployments would publish this to a UI channel; hwsimctl
		// just prints time so the operator can see the driver advancing.
		fmt.Fprintf(os.Stderr, "\rt=%d ", s.Time)
	})

	restore, err := enterRawMode(os.Stdin)
	if err != nil {
		logger.Fatal(err)
	}
	defer restore()

	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, unix.SIGWINCH)
	go func() {
		for sig := range sigCh {
			if sig == os.Interrupt {
				close(stop)
				return
			}
			// SIGWINCH: nothing to resize in a line-oriented console; ignored.
		}
	}()

	keys := make(chan byte)
	go readKeys(os.Stdin, keys)

	fmt.Fprintln(os.Stderr, "hwsimctl: t=toggle first TOGGLE, p=pulse first PULSE, r=reset, q=quit")
	go drv.Run(stop)

	for {
		select {
		case <-stop:
			return
		case b := <-keys:
			handleKey(b, kernel, stop, logger)
		}
	}
}

func handleKey(b byte, kernel *sim.Kernel, stop chan struct{}, logger *log.Logger) {
	switch b {
	case 'q':
		close(stop)
	case 'r':
		kernel.Reset()
	case 't':
		if id := firstOfType(kernel, sim.TypeToggle); id != "" {
			if err := kernel.Toggle(id); err != nil {
				logger.Print(err)
			}
		}
	case 'p':
		if id := firstOfType(kernel, sim.TypePulse); id != "" {
			if err := kernel.TriggerPulse(id); err != nil {
				logger.Print(err)
			}
		}
	}
}

func firstOfType(kernel *sim.Kernel, t sim.Type) string {
	for _, c := range kernel.Netlist().Components() {
		if c.Type == t {
			return c.ID
		}
	}
	return ""
}

func loadNetlist(path string) (netlistFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return netlistFile{}, err
	}
	defer f.Close()
	var nl netlistFile
	if err := json.NewDecoder(f).Decode(&nl); err != nil {
		return netlistFile{}, err
	}
	return nl, nil
}

// enterRawMode switches f into cbreak-style raw input (no echo, no line
// buffering) so individual keystrokes are delivered immediately, and
// returns a function that restores the terminal's original attributes.
func enterRawMode(f *os.File) (func(), error) {
	fd := f.Fd()
	var original unix.Termios
	if err := termios.Tcgetattr(fd, &original); err != nil {
		return func() {}, err
	}
	raw := original
	termios.Cfmakecbreak(&raw)
	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &raw); err != nil {
		return func() {}, err
	}
	return func() {
		_ = termios.Tcsetattr(fd, termios.TCIFLUSH, &original)
	}, nil
}

func readKeys(f *os.File, out chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := f.Read(buf)
		if err != nil {
			close(out)
			return
		}
		if n > 0 {
			out <- buf[0]
		}
	}
}
