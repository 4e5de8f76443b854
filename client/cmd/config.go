/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcio/bigip-driver/pkg/driver"
)

var retrieve string
var discard bool
var message string

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "read and change the device configuration",
}

// configGetCmd represents the config get command
var configGetCmd = &cobra.Command{
	Use:          "get",
	Short:        "print the running configuration",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDriver(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		cfg, err := d.GetConfig(cmd.Context(), driver.GetConfigRequest{Retrieve: retrieve})
		if err != nil {
			return err
		}
		fmt.Println(cfg.Running)
		return nil
	},
}

// configReplaceCmd represents the config replace command
var configReplaceCmd = &cobra.Command{
	Use:          "replace FILE",
	Short:        "replace the configuration with a single configuration file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyCandidate(cmd, args[0], (*driver.Driver).LoadReplaceCandidate)
	},
}

// configMergeCmd represents the config merge command
var configMergeCmd = &cobra.Command{
	Use:          "merge FILE",
	Short:        "merge a single configuration file into the configuration",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyCandidate(cmd, args[0], (*driver.Driver).LoadMergeCandidate)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configReplaceCmd, configMergeCmd)

	configGetCmd.Flags().StringVarP(&retrieve, "retrieve", "", driver.RetrieveAll, "'all' or 'recursive'")
	for _, c := range []*cobra.Command{configReplaceCmd, configMergeCmd} {
		c.Flags().BoolVarP(&discard, "discard", "", false, "stage the file and discard it instead of committing")
		c.Flags().StringVarP(&message, "message", "m", "", "commit message, logged only")
	}
}

// applyCandidate stages the file and commits it, or discards it with
// --discard. The candidate does not outlive the session.
func applyCandidate(cmd *cobra.Command, file string, stage func(*driver.Driver, context.Context, driver.CandidateSource) error) error {
	ctx := cmd.Context()
	d, err := openDriver(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := stage(d, ctx, driver.CandidateSource{Filename: file}); err != nil {
		if _, ok := d.Staged(); ok {
			if derr := d.DiscardConfig(ctx); derr != nil {
				fmt.Printf("failed to clean up staged file: %v\n", derr)
			}
		}
		return err
	}
	remote, _ := d.Staged()
	fmt.Printf("staged %s as %s\n", file, remote)
	if discard {
		if err := d.DiscardConfig(ctx); err != nil {
			return err
		}
		fmt.Println("discarded")
		return nil
	}
	if err := d.CommitConfig(ctx, message); err != nil {
		return err
	}
	fmt.Println("committed")
	return nil
}
