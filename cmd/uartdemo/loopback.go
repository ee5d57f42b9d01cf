package main

import (
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/db47h/uartsim"
)

var loopbackCmd = &cobra.Command{
	Use:   "loopback",
	Short: "Echo every byte back through a looped back line",
	Long: `loopback wires the line's output bit straight back onto its input, so
every byte a peer sends crosses the line twice and comes back to it one
frame later. Try it with

  uartdemo loopback -p 2023 &
  nc localhost 2023`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := openLink(flagPort)
		if err != nil {
			return err
		}
		u := uartsim.New(link)
		u.Setup(flagSetup)
		defer u.Close()
		glog.Infof("loopback: line is %v", u.Config())

		ctx := signalContext()
		bit := 1
		runLoop(ctx, func() {
			bit = u.Tick(bit)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loopbackCmd)
}
