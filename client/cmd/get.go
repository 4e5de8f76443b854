/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdcio/bigip-driver/pkg/driver"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "read operational state from devices",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		setupLogging()
		return validateGetFlags()
	},
}

func validateGetFlags() error {
	if maxConcurrency < 1 {
		return fmt.Errorf("--max-concurrency must be at least 1, got %d", maxConcurrency)
	}
	return nil
}

type getter struct {
	use   string
	short string
	fetch func(context.Context, *driver.Driver) (any, error)
	// table returns header and rows, nil for json only output
	table func(any) ([]string, [][]string)
}

var instanceName string

var getters = []getter{
	{
		use:   "facts",
		short: "device facts",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetFacts(ctx) },
		table: func(v any) ([]string, [][]string) {
			f := v.(*types.Facts)
			return []string{"Hostname", "Model", "Version", "Serial", "Uptime", "Interfaces"},
				[][]string{{f.Hostname, f.Model, f.OSVersion, f.SerialNumber, strings.TrimSpace(f.Uptime), strconv.Itoa(len(f.InterfaceList))}}
		},
	},
	{
		use:   "interfaces",
		short: "interface state",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetInterfaces(ctx) },
		table: func(v any) ([]string, [][]string) {
			ifs := v.(map[string]types.Interface)
			rows := make([][]string, 0, len(ifs))
			for _, name := range sortedKeys(ifs) {
				i := ifs[name]
				rows = append(rows, []string{name, upDown(i.IsEnabled), upDown(i.IsUp), strconv.FormatInt(i.Speed, 10), i.MACAddress, i.Description})
			}
			return []string{"Name", "Admin", "Oper", "Speed", "MAC", "Description"}, rows
		},
	},
	{
		use:   "counters",
		short: "interface counters",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetInterfacesCounters(ctx) },
		table: func(v any) ([]string, [][]string) {
			cnt := v.(map[string]types.InterfaceCounters)
			rows := make([][]string, 0, len(cnt))
			for _, name := range sortedKeys(cnt) {
				c := cnt[name]
				rows = append(rows, []string{name,
					counter(c.RxOctets), counter(c.TxOctets),
					counter(c.RxUnicastPackets), counter(c.TxUnicastPackets),
					counter(c.RxErrors), counter(c.TxErrors),
					counter(c.RxDiscards), counter(c.TxDiscards),
				})
			}
			return []string{"Name", "RX Octets", "TX Octets", "RX Packets", "TX Packets", "RX Errors", "TX Errors", "RX Discards", "TX Discards"}, rows
		},
	},
	{
		use:   "ips",
		short: "interface IP addresses",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetInterfacesIP(ctx) },
		table: func(v any) ([]string, [][]string) {
			ips := v.(map[string]types.InterfaceIP)
			var rows [][]string
			for _, name := range sortedKeys(ips) {
				for _, a := range sortedKeys(ips[name].IPv4) {
					rows = append(rows, []string{name, "ipv4", fmt.Sprintf("%s/%d", a, ips[name].IPv4[a].PrefixLength)})
				}
				for _, a := range sortedKeys(ips[name].IPv6) {
					rows = append(rows, []string{name, "ipv6", fmt.Sprintf("%s/%d", a, ips[name].IPv6[a].PrefixLength)})
				}
			}
			return []string{"Interface", "Family", "Address"}, rows
		},
	},
	{
		use:   "snmp",
		short: "SNMP settings",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetSNMPInformation(ctx) },
		table: func(v any) ([]string, [][]string) {
			s := v.(*types.SNMP)
			var rows [][]string
			for _, name := range sortedKeys(s.Community) {
				c := s.Community[name]
				rows = append(rows, []string{s.ChassisID, s.Contact, s.Location, name, c.Mode, c.ACL})
			}
			if len(rows) == 0 {
				rows = append(rows, []string{s.ChassisID, s.Contact, s.Location, "", "", ""})
			}
			return []string{"Chassis", "Contact", "Location", "Community", "Mode", "ACL"}, rows
		},
	},
	{
		use:   "users",
		short: "local users",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetUsers(ctx) },
		table: func(v any) ([]string, [][]string) {
			users := v.(map[string]types.User)
			rows := make([][]string, 0, len(users))
			for _, name := range sortedKeys(users) {
				rows = append(rows, []string{name, strconv.Itoa(users[name].Level)})
			}
			return []string{"Username", "Level"}, rows
		},
	},
	{
		use:   "ntp",
		short: "NTP servers",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetNTPServers(ctx) },
		table: func(v any) ([]string, [][]string) {
			servers := v.(map[string]types.NTPServer)
			rows := make([][]string, 0, len(servers))
			for _, s := range sortedKeys(servers) {
				rows = append(rows, []string{s})
			}
			return []string{"Server"}, rows
		},
	},
	{
		use:   "environment",
		short: "hardware health",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetEnvironment(ctx) },
		table: func(v any) ([]string, [][]string) {
			env := v.(*types.Environment)
			var rows [][]string
			for _, loc := range sortedKeys(env.Temperature) {
				t := env.Temperature[loc]
				state := "ok"
				switch {
				case t.IsCritical:
					state = "critical"
				case t.IsAlert:
					state = "alert"
				}
				rows = append(rows, []string{"temperature", loc, fmt.Sprintf("%.1f", t.Temperature), state})
			}
			for _, id := range sortedKeys(env.Fans) {
				rows = append(rows, []string{"fan", id, "", okFailed(env.Fans[id].Status)})
			}
			for _, id := range sortedKeys(env.Power) {
				rows = append(rows, []string{"power", id, "", okFailed(env.Power[id].Status)})
			}
			for _, id := range sortedKeys(env.CPU) {
				rows = append(rows, []string{"cpu", id, fmt.Sprintf("%.0f%%", env.CPU[id].Usage), ""})
			}
			rows = append(rows, []string{"memory", "used", strconv.FormatInt(env.Memory.UsedRAM, 10), ""})
			rows = append(rows, []string{"memory", "available", strconv.FormatInt(env.Memory.AvailableRAM, 10), ""})
			return []string{"Component", "ID", "Value", "Status"}, rows
		},
	},
	{
		use:   "network-instances",
		short: "route domains",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) {
			return d.GetNetworkInstances(ctx, instanceName)
		},
		table: func(v any) ([]string, [][]string) {
			nis := v.(map[string]types.NetworkInstance)
			rows := make([][]string, 0, len(nis))
			for _, name := range sortedKeys(nis) {
				ni := nis[name]
				var rd string
				var ifs []string
				if ni.State != nil {
					rd = ni.State.RouteDistinguisher
				}
				if ni.Interfaces != nil {
					ifs = sortedKeys(ni.Interfaces.Interface)
				}
				rows = append(rows, []string{name, ni.Type, rd, strings.Join(ifs, "\n")})
			}
			return []string{"Name", "Type", "RD", "Interfaces"}, rows
		},
	},
	{
		use:   "mac-table",
		short: "forwarding database",
		fetch: func(ctx context.Context, d *driver.Driver) (any, error) { return d.GetMACAddressTable(ctx) },
		table: func(v any) ([]string, [][]string) {
			entries := v.([]types.MACEntry)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.MAC, e.Interface, strconv.Itoa(e.VLAN), strconv.FormatBool(e.Static)})
			}
			return []string{"MAC", "Interface", "VLAN", "Static"}, rows
		},
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.PersistentFlags().BoolVarP(&allDevices, "all", "", false, "query all configured devices")
	getCmd.PersistentFlags().IntVarP(&maxConcurrency, "max-concurrency", "", 4, "devices queried in parallel with --all")

	for _, g := range getters {
		g := g
		c := &cobra.Command{
			Use:          g.use,
			Short:        g.short,
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				results, err := forEachDevice(cmd.Context(), g.fetch)
				if perr := printResults(results, g.table); perr != nil {
					return perr
				}
				return err
			},
		}
		if g.use == "network-instances" {
			c.Flags().StringVarP(&instanceName, "name", "", "", "network instance name")
		}
		getCmd.AddCommand(c)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func upDown(b bool) string {
	if b {
		return "up"
	}
	return "down"
}

func okFailed(b bool) string {
	if b {
		return "ok"
	}
	return "failed"
}

func counter(v int64) string {
	if v < 0 {
		return "-"
	}
	return strconv.FormatInt(v, 10)
}
