// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

var (
	deviceLabels    = []string{"device"}
	interfaceLabels = []string{"device", "interface"}

	upDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "up"),
		"Whether the last scrape of the device succeeded.",
		deviceLabels, nil)
	scrapeDurationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "scrape", "duration_seconds"),
		"Duration of the last scrape of the device.",
		deviceLabels, nil)

	interfaceUpDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "interface", "up"),
		"Link state of the interface.",
		interfaceLabels, nil)
	interfaceEnabledDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "interface", "enabled"),
		"Administrative state of the interface.",
		interfaceLabels, nil)
	interfaceSpeedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "interface", "speed_mbps"),
		"Speed of the active media of the interface.",
		interfaceLabels, nil)

	temperatureDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "temperature_celsius"),
		"Temperature reading of a sensor.",
		[]string{"device", "location"}, nil)
	temperatureAlertDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "temperature_alert"),
		"Whether the sensor reading is above the alert level.",
		[]string{"device", "location"}, nil)
	temperatureCriticalDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "temperature_critical"),
		"Whether the sensor reading is above the critical level.",
		[]string{"device", "location"}, nil)
	fanUpDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "fan_up"),
		"Fan status.",
		[]string{"device", "fan"}, nil)
	powerSupplyUpDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "power_supply_up"),
		"Power supply status.",
		[]string{"device", "supply"}, nil)
	cpuUsageDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "cpu_usage_percent"),
		"One minute average CPU usage.",
		[]string{"device", "cpu"}, nil)
	memoryUsedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "memory_used_bytes"),
		"Memory used across all hosts.",
		deviceLabels, nil)
	memoryAvailableDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "environment", "memory_available_bytes"),
		"Memory available across all hosts.",
		deviceLabels, nil)
)

// interface counters, values of -1 are not exported
var counterDescs = []struct {
	desc  *prometheus.Desc
	value func(*types.InterfaceCounters) int64
}{
	{counterDesc("rx_octets_total", "Octets received."), func(c *types.InterfaceCounters) int64 { return c.RxOctets }},
	{counterDesc("tx_octets_total", "Octets transmitted."), func(c *types.InterfaceCounters) int64 { return c.TxOctets }},
	{counterDesc("rx_unicast_packets_total", "Packets received."), func(c *types.InterfaceCounters) int64 { return c.RxUnicastPackets }},
	{counterDesc("tx_unicast_packets_total", "Packets transmitted."), func(c *types.InterfaceCounters) int64 { return c.TxUnicastPackets }},
	{counterDesc("rx_multicast_packets_total", "Multicast packets received."), func(c *types.InterfaceCounters) int64 { return c.RxMulticastPackets }},
	{counterDesc("tx_multicast_packets_total", "Multicast packets transmitted."), func(c *types.InterfaceCounters) int64 { return c.TxMulticastPackets }},
	{counterDesc("rx_broadcast_packets_total", "Broadcast packets received."), func(c *types.InterfaceCounters) int64 { return c.RxBroadcastPackets }},
	{counterDesc("tx_broadcast_packets_total", "Broadcast packets transmitted."), func(c *types.InterfaceCounters) int64 { return c.TxBroadcastPackets }},
	{counterDesc("rx_errors_total", "Receive errors."), func(c *types.InterfaceCounters) int64 { return c.RxErrors }},
	{counterDesc("tx_errors_total", "Transmit errors."), func(c *types.InterfaceCounters) int64 { return c.TxErrors }},
	{counterDesc("rx_discards_total", "Packets dropped on receive."), func(c *types.InterfaceCounters) int64 { return c.RxDiscards }},
	{counterDesc("tx_discards_total", "Packets dropped on transmit."), func(c *types.InterfaceCounters) int64 { return c.TxDiscards }},
}

var allDescs = func() []*prometheus.Desc {
	descs := []*prometheus.Desc{
		upDesc, scrapeDurationDesc,
		interfaceUpDesc, interfaceEnabledDesc, interfaceSpeedDesc,
		temperatureDesc, temperatureAlertDesc, temperatureCriticalDesc,
		fanUpDesc, powerSupplyUpDesc, cpuUsageDesc,
		memoryUsedDesc, memoryAvailableDesc,
	}
	for _, c := range counterDescs {
		descs = append(descs, c.desc)
	}
	return descs
}()

func counterDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, "interface", name), help, interfaceLabels, nil)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func collectInterfaces(ch chan<- prometheus.Metric, device string, ifs map[string]types.Interface, counters map[string]types.InterfaceCounters) {
	for name, i := range ifs {
		ch <- prometheus.MustNewConstMetric(interfaceUpDesc, prometheus.GaugeValue, boolToFloat(i.IsUp), device, name)
		ch <- prometheus.MustNewConstMetric(interfaceEnabledDesc, prometheus.GaugeValue, boolToFloat(i.IsEnabled), device, name)
		if i.Speed >= 0 {
			ch <- prometheus.MustNewConstMetric(interfaceSpeedDesc, prometheus.GaugeValue, float64(i.Speed), device, name)
		}
	}
	for name, c := range counters {
		c := c
		for _, cd := range counterDescs {
			v := cd.value(&c)
			if v < 0 {
				continue
			}
			ch <- prometheus.MustNewConstMetric(cd.desc, prometheus.CounterValue, float64(v), device, name)
		}
	}
}

func collectEnvironment(ch chan<- prometheus.Metric, device string, env *types.Environment) {
	for loc, t := range env.Temperature {
		ch <- prometheus.MustNewConstMetric(temperatureDesc, prometheus.GaugeValue, t.Temperature, device, loc)
		ch <- prometheus.MustNewConstMetric(temperatureAlertDesc, prometheus.GaugeValue, boolToFloat(t.IsAlert), device, loc)
		ch <- prometheus.MustNewConstMetric(temperatureCriticalDesc, prometheus.GaugeValue, boolToFloat(t.IsCritical), device, loc)
	}
	for id, f := range env.Fans {
		ch <- prometheus.MustNewConstMetric(fanUpDesc, prometheus.GaugeValue, boolToFloat(f.Status), device, id)
	}
	for id, p := range env.Power {
		ch <- prometheus.MustNewConstMetric(powerSupplyUpDesc, prometheus.GaugeValue, boolToFloat(p.Status), device, id)
	}
	for id, c := range env.CPU {
		if c.Usage < 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(cpuUsageDesc, prometheus.GaugeValue, c.Usage, device, id)
	}
	ch <- prometheus.MustNewConstMetric(memoryUsedDesc, prometheus.GaugeValue, float64(env.Memory.UsedRAM), device)
	ch <- prometheus.MustNewConstMetric(memoryAvailableDesc, prometheus.GaugeValue, float64(env.Memory.AvailableRAM), device)
}
