/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver"
)

var configFile string
var deviceName string
var allDevices bool
var maxConcurrency int
var format string
var debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "f5ctl",
	Short: "manage F5 BIG-IP devices",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging()
	},
}

func setupLogging() {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "~/.f5ctl.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "D", "", "device name, required with more than one device configured")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "", "table", "print format, 'table' or 'json'")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "set log level to DEBUG")
}

func loadConfig() (*config.Config, error) {
	return config.New(configFile)
}

// openDriver opens a session to the selected device.
func openDriver(ctx context.Context) (*driver.Driver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dc, err := cfg.Device(deviceName)
	if err != nil {
		return nil, err
	}
	return openDevice(ctx, cfg, dc)
}

func openDevice(ctx context.Context, cfg *config.Config, dc *config.DeviceConfig) (*driver.Driver, error) {
	th, err := cfg.Thresholds()
	if err != nil {
		return nil, err
	}
	d := driver.New(dc, driver.WithThresholds(th))
	if err := d.Open(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// forEachDevice runs fn against the selected device, or against all
// configured devices with --all, and returns the results by device name.
func forEachDevice(ctx context.Context, fn func(context.Context, *driver.Driver) (any, error)) (map[string]any, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	devices := cfg.Devices
	if !allDevices {
		dc, err := cfg.Device(deviceName)
		if err != nil {
			return nil, err
		}
		devices = []*config.DeviceConfig{dc}
	}

	m := new(sync.Mutex)
	results := make(map[string]any, len(devices))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrency)
	for _, dc := range devices {
		dc := dc
		eg.Go(func() error {
			d, err := openDevice(ctx, cfg, dc)
			if err != nil {
				return fmt.Errorf("%s: %w", dc.Name, err)
			}
			defer d.Close()
			r, err := fn(ctx, d)
			if err != nil {
				return fmt.Errorf("%s: %w", dc.Name, err)
			}
			m.Lock()
			results[dc.Name] = r
			m.Unlock()
			return nil
		})
	}
	err = eg.Wait()
	return results, err
}
