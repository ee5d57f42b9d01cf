package main

import (
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/uartsim"
)

var helloText string

var helloCmd = &cobra.Command{
	Use:   "helloworld",
	Short: "Serve a device that repeats a message over the line",
	Long: `helloworld runs two lines back to back, null modem style: a transmit
only device endlessly repeating a message, and a host line forwarding
whatever the device says to the peer. Try it with

  uartdemo helloworld -p 2023 &
  nc localhost 2023`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := openLink(flagPort)
		if err != nil {
			return err
		}
		host := uartsim.New(link)
		host.Setup(flagSetup)
		defer host.Close()

		r, w, err := os.Pipe()
		if err != nil {
			return errors.Wrap(err, "message pipe")
		}
		defer r.Close()
		go func() {
			msg := []byte(helloText)
			for {
				if _, err := w.Write(msg); err != nil {
					return
				}
			}
		}()
		dev := uartsim.New(uartsim.Descriptors(int(r.Fd()), -1))
		dev.Setup(flagSetup)
		glog.Infof("helloworld: line is %v", host.Config())

		ctx := signalContext()
		devOut, hostOut := 1, 1
		runLoop(ctx, func() {
			devOut = dev.Tick(hostOut)
			hostOut = host.Tick(devOut)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
	helloCmd.Flags().StringVar(&helloText, "text", "Hello, World!\r\n",
		"message the device repeats")
}
