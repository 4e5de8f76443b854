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

package bigip

// Resource names a readable collection on the device. Names follow the
// iControl REST layout below /mgmt/tm. The property names each transport has
// to produce are listed next to the resource.
type Resource string

const (
	// marketingName, hostname, version, chassisId, [uptime]
	ResourceDevice Resource = "cm/device"
	// name, enabled, macAddress, mediaActive, [description], [status]
	ResourceInterfaces Resource = "net/interface"
	// one object per interface, properties keyed by Stat* tags
	ResourceInterfaceStats Resource = "net/interface/stats"
	// fullPath, address, [netmask], [vlan]
	ResourceSelfIPs Resource = "net/self"
	// sysContact, sysLocation
	ResourceSNMP Resource = "sys/snmp"
	// communityName, source, access
	ResourceSNMPCommunities Resource = "sys/snmp/communities"
	// name, encryptedPassword, role | partitionAccess
	ResourceUsers Resource = "auth/user"
	// servers
	ResourceNTP Resource = "sys/ntp"
	// name, id, description, vlans
	ResourceRouteDomains Resource = "net/route-domain"
	// mac, vlan, vlanId, static
	ResourceFDB Resource = "net/fdb"

	// productCategory, platform
	ResourcePlatform Resource = "sys/hardware/platform"
	// name (sensor id), temperature
	ResourceTemperature Resource = "sys/hardware/temperature"
	// name (sensor location), temperature
	ResourceBladeTemperature Resource = "sys/hardware/blade-temperature"
	// name (fan id), state
	ResourceFans Resource = "sys/hardware/fan"
	// StatCPUOneMinAvgUsage
	ResourceCPU Resource = "sys/hardware/cpu"
	// name (index), PS_INDEX, PS_STATE, PS_INPUT_STATE, PS_OUTPUT_STATE, PS_FAN_STATE
	ResourcePowerSupplies Resource = "sys/hardware/power-supply"
	// one object per host, StatMemoryTotal, StatMemoryUsed
	ResourceHostStats Resource = "sys/host-info"
)

// statistic type tags as reported by the statistics API
const (
	StatErrorsIn          = "STATISTIC_ERRORS_IN"
	StatErrorsOut         = "STATISTIC_ERRORS_OUT"
	StatDroppedIn         = "STATISTIC_DROPPED_PACKETS_IN"
	StatDroppedOut        = "STATISTIC_DROPPED_PACKETS_OUT"
	StatBytesIn           = "STATISTIC_BYTES_IN"
	StatBytesOut          = "STATISTIC_BYTES_OUT"
	StatPacketsIn         = "STATISTIC_PACKETS_IN"
	StatPacketsOut        = "STATISTIC_PACKETS_OUT"
	StatMulticastsIn      = "STATISTIC_MULTICASTS_IN"
	StatMulticastsOut     = "STATISTIC_MULTICASTS_OUT"
	StatCPUOneMinAvgUsage = "STATISTIC_CPU_INFO_ONE_MIN_AVG_USAGE_RATIO"
	StatMemoryTotal       = "STATISTIC_MEMORY_TOTAL_BYTES"
	StatMemoryUsed        = "STATISTIC_MEMORY_USED_BYTES"
)

// power supply metric types
const (
	PSIndex       = "PS_INDEX"
	PSState       = "PS_STATE"
	PSInputState  = "PS_INPUT_STATE"
	PSOutputState = "PS_OUTPUT_STATE"
	PSFanState    = "PS_FAN_STATE"
)
