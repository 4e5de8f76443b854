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

// Package types holds the vendor neutral records returned by the driver. JSON
// keys follow the NAPALM getters.
package types

type IsAlive struct {
	IsAlive bool `json:"is_alive"`
}

type Config struct {
	Running   string `json:"running"`
	Candidate string `json:"candidate"`
	Startup   string `json:"startup"`
}

type Facts struct {
	Uptime        string   `json:"uptime"`
	Vendor        string   `json:"vendor"`
	Model         string   `json:"model"`
	Hostname      string   `json:"hostname"`
	FQDN          string   `json:"fqdn"`
	OSVersion     string   `json:"os_version"`
	SerialNumber  string   `json:"serial_number"`
	InterfaceList []string `json:"interface_list"`
}

type Interface struct {
	IsUp        bool    `json:"is_up"`
	IsEnabled   bool    `json:"is_enabled"`
	Description string  `json:"description"`
	LastFlapped float64 `json:"last_flapped"`
	// Mbit/s, -1 if unknown
	Speed      int64  `json:"speed"`
	MACAddress string `json:"mac_address"`
}

// InterfaceCounters values are -1 when the device does not report them.
type InterfaceCounters struct {
	TxErrors           int64 `json:"tx_errors"`
	RxErrors           int64 `json:"rx_errors"`
	TxDiscards         int64 `json:"tx_discards"`
	RxDiscards         int64 `json:"rx_discards"`
	TxOctets           int64 `json:"tx_octets"`
	RxOctets           int64 `json:"rx_octets"`
	TxUnicastPackets   int64 `json:"tx_unicast_packets"`
	RxUnicastPackets   int64 `json:"rx_unicast_packets"`
	TxMulticastPackets int64 `json:"tx_multicast_packets"`
	RxMulticastPackets int64 `json:"rx_multicast_packets"`
	TxBroadcastPackets int64 `json:"tx_broadcast_packets"`
	RxBroadcastPackets int64 `json:"rx_broadcast_packets"`
}

type Prefix struct {
	PrefixLength int `json:"prefix_length"`
}

// InterfaceIP maps addresses to their prefix, per address family.
type InterfaceIP struct {
	IPv4 map[string]Prefix `json:"ipv4,omitempty"`
	IPv6 map[string]Prefix `json:"ipv6,omitempty"`
}

type SNMP struct {
	ChassisID string                   `json:"chassis_id"`
	Community map[string]SNMPCommunity `json:"community"`
	Contact   string                   `json:"contact"`
	Location  string                   `json:"location"`
}

type SNMPCommunity struct {
	ACL  string `json:"acl"`
	Mode string `json:"mode"`
}

type User struct {
	Level    int      `json:"level"`
	Password string   `json:"password"`
	SSHKeys  []string `json:"sshkeys"`
}

type NTPServer struct{}

type Environment struct {
	Fans        map[string]Fan         `json:"fans"`
	Temperature map[string]Temperature `json:"temperature"`
	Power       map[string]Power       `json:"power"`
	CPU         map[string]CPU         `json:"cpu"`
	Memory      Memory                 `json:"memory"`
}

type Fan struct {
	Status bool `json:"status"`
}

type Temperature struct {
	Temperature float64 `json:"temperature"`
	IsAlert     bool    `json:"is_alert"`
	IsCritical  bool    `json:"is_critical"`
}

type Power struct {
	Status   bool    `json:"status"`
	Capacity float64 `json:"capacity"`
	Output   float64 `json:"output"`
}

type CPU struct {
	Usage float64 `json:"%usage"`
}

type Memory struct {
	AvailableRAM int64 `json:"available_ram"`
	UsedRAM      int64 `json:"used_ram"`
}

const (
	InstanceTypeDefault = "DEFAULT_INSTANCE"
	InstanceTypeL3VRF   = "L3VRF"
)

// NetworkInstance is empty for an instance that does not exist.
type NetworkInstance struct {
	Name       string                    `json:"name,omitempty"`
	Type       string                    `json:"type,omitempty"`
	State      *NetworkInstanceState     `json:"state,omitempty"`
	Interfaces *NetworkInstanceInterface `json:"interfaces,omitempty"`
}

type NetworkInstanceState struct {
	RouteDistinguisher string `json:"route_distinguisher"`
}

type NetworkInstanceInterface struct {
	Interface map[string]struct{} `json:"interface"`
}

type MACEntry struct {
	MAC       string  `json:"mac"`
	Interface string  `json:"interface"`
	VLAN      int     `json:"vlan"`
	Static    bool    `json:"static"`
	Active    bool    `json:"active"`
	Moves     int     `json:"moves"`
	LastMove  float64 `json:"last_move"`
}
