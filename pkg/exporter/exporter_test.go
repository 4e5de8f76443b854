package exporter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

type fakeDevice struct {
	name    string
	open    bool
	opens   int
	closes  int
	openErr error
	ifs     map[string]types.Interface
	cnt     map[string]types.InterfaceCounters
	env     *types.Environment
}

func (f *fakeDevice) Name() string { return f.name }

func (f *fakeDevice) Open(context.Context) error {
	f.opens++
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeDevice) IsAlive() types.IsAlive { return types.IsAlive{IsAlive: f.open} }

func (f *fakeDevice) Close() error {
	f.closes++
	f.open = false
	return nil
}

func (f *fakeDevice) GetInterfaces(context.Context) (map[string]types.Interface, error) {
	return f.ifs, nil
}

func (f *fakeDevice) GetInterfacesCounters(context.Context) (map[string]types.InterfaceCounters, error) {
	return f.cnt, nil
}

func (f *fakeDevice) GetEnvironment(context.Context) (*types.Environment, error) {
	if f.env == nil {
		return nil, errors.New("not implemented")
	}
	return f.env, nil
}

func counters(rxOctets int64) types.InterfaceCounters {
	return types.InterfaceCounters{
		RxOctets: rxOctets, TxOctets: -1,
		RxUnicastPackets: -1, TxUnicastPackets: -1,
		RxMulticastPackets: -1, TxMulticastPackets: -1,
		RxBroadcastPackets: -1, TxBroadcastPackets: -1,
		RxErrors: -1, TxErrors: -1,
		RxDiscards: -1, TxDiscards: -1,
	}
}

func exporterConfig(env bool) *config.Exporter {
	return &config.Exporter{MaxConcurrency: 2, ScrapeTimeout: time.Second, Environment: env}
}

func TestExporter_Collect(t *testing.T) {
	lb1 := &fakeDevice{
		name: "lb1",
		ifs: map[string]types.Interface{
			"1.1": {IsUp: true, IsEnabled: true, Speed: 10000},
			"1.2": {IsUp: false, IsEnabled: false, Speed: -1},
		},
		cnt: map[string]types.InterfaceCounters{
			"1.1": counters(1234),
			"1.2": counters(-1),
		},
	}
	lb2 := &fakeDevice{name: "lb2", openErr: errors.New("connection refused")}
	e := New(exporterConfig(false), lb1, lb2)

	want := `
# HELP bigip_up Whether the last scrape of the device succeeded.
# TYPE bigip_up gauge
bigip_up{device="lb1"} 1
bigip_up{device="lb2"} 0
# HELP bigip_interface_up Link state of the interface.
# TYPE bigip_interface_up gauge
bigip_interface_up{device="lb1",interface="1.1"} 1
bigip_interface_up{device="lb1",interface="1.2"} 0
# HELP bigip_interface_speed_mbps Speed of the active media of the interface.
# TYPE bigip_interface_speed_mbps gauge
bigip_interface_speed_mbps{device="lb1",interface="1.1"} 10000
# HELP bigip_interface_rx_octets_total Octets received.
# TYPE bigip_interface_rx_octets_total counter
bigip_interface_rx_octets_total{device="lb1",interface="1.1"} 1234
`
	err := testutil.CollectAndCompare(e, strings.NewReader(want),
		"bigip_up", "bigip_interface_up", "bigip_interface_speed_mbps", "bigip_interface_rx_octets_total")
	if err != nil {
		t.Error(err)
	}
	if lb1.opens != 1 || !lb1.open {
		t.Errorf("lb1 opened %d times, open=%v", lb1.opens, lb1.open)
	}
	if lb2.closes != 1 {
		t.Errorf("failed device closed %d times, want 1", lb2.closes)
	}

	// an open session is reused, the failed device is retried
	testutil.CollectAndCount(e, "bigip_up")
	if lb1.opens != 1 {
		t.Errorf("lb1 reopened: %d opens", lb1.opens)
	}
	if lb2.opens != 2 {
		t.Errorf("lb2 not retried: %d opens", lb2.opens)
	}
}

func TestExporter_CollectEnvironment(t *testing.T) {
	lb1 := &fakeDevice{
		name: "lb1",
		env: &types.Environment{
			Fans:        map[string]types.Fan{"1": {Status: true}},
			Temperature: map[string]types.Temperature{"inlet": {Temperature: 40, IsAlert: true}},
			Power:       map[string]types.Power{"1": {Status: false, Capacity: -1, Output: -1}},
			CPU:         map[string]types.CPU{"0": {Usage: -1}},
			Memory:      types.Memory{AvailableRAM: 2048, UsedRAM: 1024},
		},
	}
	// no environment on this transport, the device is down as a whole
	lb2 := &fakeDevice{name: "lb2"}
	e := New(exporterConfig(true), lb1, lb2)

	want := `
# HELP bigip_up Whether the last scrape of the device succeeded.
# TYPE bigip_up gauge
bigip_up{device="lb1"} 1
bigip_up{device="lb2"} 0
# HELP bigip_environment_fan_up Fan status.
# TYPE bigip_environment_fan_up gauge
bigip_environment_fan_up{device="lb1",fan="1"} 1
# HELP bigip_environment_power_supply_up Power supply status.
# TYPE bigip_environment_power_supply_up gauge
bigip_environment_power_supply_up{device="lb1",supply="1"} 0
# HELP bigip_environment_temperature_celsius Temperature reading of a sensor.
# TYPE bigip_environment_temperature_celsius gauge
bigip_environment_temperature_celsius{device="lb1",location="inlet"} 40
# HELP bigip_environment_memory_used_bytes Memory used across all hosts.
# TYPE bigip_environment_memory_used_bytes gauge
bigip_environment_memory_used_bytes{device="lb1"} 1024
`
	err := testutil.CollectAndCompare(e, strings.NewReader(want),
		"bigip_up",
		"bigip_environment_fan_up",
		"bigip_environment_power_supply_up",
		"bigip_environment_temperature_celsius",
		"bigip_environment_memory_used_bytes",
		"bigip_environment_cpu_usage_percent",
	)
	if err != nil {
		t.Error(err)
	}
}
