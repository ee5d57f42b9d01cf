package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/db47h/uartsim"
)

var (
	flagPort  int
	flagSetup uint32
)

var rootCmd = &cobra.Command{
	Use:   "uartdemo",
	Short: "Demo drivers for the uartsim serial line emulator",
	Long: `uartdemo runs small clock stepped simulations around a uartsim serial line.

The line is served either over TCP (--port) or over the process's own
standard input and output (the default). The setup word (--setup) uses the
wbuart register layout; the default of 868 is 8N1 at 115200 bauds off a
100MHz clock.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagPort, "port", "p", 0,
		"TCP port to serve the line on, 0 for stdin/stdout")
	rootCmd.PersistentFlags().Uint32VarP(&flagSetup, "setup", "s", 868,
		"setup word applied to the line")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	// cobra owns the real argument parsing; this only keeps glog happy.
	_ = flag.CommandLine.Parse(nil)
	if err := rootCmd.Execute(); err != nil {
		glog.Exit(err)
	}
	glog.Flush()
}

// openLink opens the byte transport the demos talk through.
func openLink(port int) (uartsim.Transport, error) {
	if port == 0 {
		return uartsim.Stdio(), nil
	}
	return uartsim.ListenTCP(port)
}

// signalContext returns a context canceled by the first interrupt or
// termination signal.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		glog.Info("stop requested")
		cancel()
	}()
	return ctx
}

// runLoop drives step flat out until ctx is canceled, checking for
// cancellation every few thousand ticks.
func runLoop(ctx context.Context, step func()) {
	for i := 0; ; i++ {
		if i&0x0fff == 0 {
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
		step()
	}
}
