//go:build metrics
// +build metrics

package driver

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// MetricsAddress is where the optional statsview dashboard listens.
const MetricsAddress = "localhost:12601"

// LaunchMetrics starts a background HTTP server exposing driver/kernel
// runtime statistics (goroutines, GC, heap) via statsview. It is compiled
// in only under the "metrics" build tag, keeping the dependency out of
// normal builds entirely.
func LaunchMetrics(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(MetricsAddress))
		mgr := statsview.New()
		mgr.Start()
	}()
	fmt.Fprintf(output, "metrics dashboard available at %s/debug/statsview\n", MetricsAddress)
}
