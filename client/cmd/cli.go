/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcio/bigip-driver/pkg/driver"
)

// cliCmd represents the cli command
var cliCmd = &cobra.Command{
	Use:          "cli COMMAND...",
	Short:        "run shell commands on the device",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		out, err := d.CLI(cmd.Context(), args, driver.EncodingText)
		if err != nil {
			return err
		}
		for _, c := range args {
			fmt.Printf("> %s\n%s\n", c, out[c])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cliCmd)
}
