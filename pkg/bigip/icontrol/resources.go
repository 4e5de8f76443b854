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

package icontrol

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdcio/bigip-driver/pkg/bigip"
)

const (
	ifaceSystemInfo = "System.SystemInfo"
	ifaceInet       = "System.Inet"
	ifaceStatistics = "System.Statistics"
	ifaceInterfaces = "Networking.Interfaces"
	ifaceSelfIP     = "Networking.SelfIPV2"
	ifaceRouteDom   = "Networking.RouteDomainV2"
	ifaceVLAN       = "Networking.VLAN"
	ifaceSNMP       = "Management.SNMPConfiguration"
	ifaceUsers      = "Management.UserManagement"

	roleAdministrator = "USER_ROLE_ADMINISTRATOR"
	rolePrefix        = "USER_ROLE_"
)

func (c *Client) Query(ctx context.Context, resource bigip.Resource) ([]*bigip.Object, error) {
	switch resource {
	case bigip.ResourceDevice:
		return c.device(ctx)
	case bigip.ResourceInterfaces:
		return c.interfaces(ctx)
	case bigip.ResourceInterfaceStats:
		return c.interfaceStats(ctx)
	case bigip.ResourceSelfIPs:
		return c.selfIPs(ctx)
	case bigip.ResourceSNMP:
		return c.snmp(ctx)
	case bigip.ResourceSNMPCommunities:
		return c.communities(ctx)
	case bigip.ResourceUsers:
		return c.users(ctx)
	case bigip.ResourceNTP:
		return c.ntp(ctx)
	case bigip.ResourceRouteDomains:
		return c.routeDomains(ctx)
	case bigip.ResourceFDB:
		return c.fdb(ctx)
	case bigip.ResourcePlatform:
		return c.platform(ctx)
	case bigip.ResourceTemperature:
		return c.metricPairs(ctx, "get_temperature_metrics", "temperatures", "temperature")
	case bigip.ResourceBladeTemperature:
		return c.bladeTemperature(ctx)
	case bigip.ResourceFans:
		return c.metricPairs(ctx, "get_fan_metrics", "fans", "state")
	case bigip.ResourceCPU:
		return c.cpu(ctx)
	case bigip.ResourcePowerSupplies:
		return c.powerSupplies(ctx)
	case bigip.ResourceHostStats:
		return c.hostStats(ctx)
	}
	return nil, fmt.Errorf("%s: %w", resource, bigip.ErrUnsupported)
}

func (c *Client) device(ctx context.Context) ([]*bigip.Object, error) {
	info, err := c.call(ctx, ifaceSystemInfo, "get_system_information")
	if err != nil {
		return nil, err
	}
	o := bigip.NewObject(str(field(info, "system_name"))).
		Set("chassisId", str(field(info, "chassis_serial")))
	for prop, method := range map[string]string{
		"marketingName": "get_marketing_name",
		"version":       "get_version",
		"uptime":        "get_uptime",
	} {
		v, err := c.call(ctx, ifaceSystemInfo, method)
		if err != nil {
			return nil, err
		}
		o.Set(prop, str(v))
	}
	hostname, err := c.call(ctx, ifaceInet, "get_hostname")
	if err != nil {
		return nil, err
	}
	o.Set("hostname", str(hostname))
	return []*bigip.Object{o}, nil
}

func (c *Client) interfaces(ctx context.Context) ([]*bigip.Object, error) {
	names, err := c.names(ctx, ifaceInterfaces)
	if err != nil {
		return nil, err
	}
	objs := newObjects(names)
	for prop, method := range map[string]string{
		"enabled":     "get_enabled_state",
		"macAddress":  "get_mac_address",
		"mediaActive": "get_active_media",
		"status":      "get_media_status",
		"description": "get_description",
	} {
		if err := c.setEach(ctx, objs, ifaceInterfaces, method, "interfaces", names, prop); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func (c *Client) interfaceStats(ctx context.Context) ([]*bigip.Object, error) {
	names, err := c.names(ctx, ifaceInterfaces)
	if err != nil {
		return nil, err
	}
	rsp, err := c.call(ctx, ifaceInterfaces, "get_statistics", param{"interfaces", names})
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, entry := range list(field(rsp, "statistics")) {
		o := bigip.NewObject(str(field(entry, "interface_name")))
		setStatistics(o, field(entry, "statistics"))
		objs = append(objs, o)
	}
	return objs, nil
}

func (c *Client) selfIPs(ctx context.Context) ([]*bigip.Object, error) {
	names, err := c.names(ctx, ifaceSelfIP)
	if err != nil {
		return nil, err
	}
	objs := newObjects(names)
	for _, o := range objs {
		o.Set("fullPath", o.Name)
	}
	for prop, method := range map[string]string{
		"address": "get_address",
		"netmask": "get_netmask",
		"vlan":    "get_vlan",
	} {
		if err := c.setEach(ctx, objs, ifaceSelfIP, method, "self_ips", names, prop); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func (c *Client) snmp(ctx context.Context) ([]*bigip.Object, error) {
	info, err := c.call(ctx, ifaceSNMP, "get_system_information")
	if err != nil {
		return nil, err
	}
	o := bigip.NewObject(str(field(info, "sys_name"))).
		Set("sysContact", str(field(info, "sys_contact"))).
		Set("sysLocation", str(field(info, "sys_location")))
	return []*bigip.Object{o}, nil
}

func (c *Client) communities(ctx context.Context) ([]*bigip.Object, error) {
	var objs []*bigip.Object
	for access, method := range map[string]string{
		"ro": "get_readonly_community",
		"rw": "get_readwrite_community",
	} {
		rsp, err := c.call(ctx, ifaceSNMP, method)
		if err != nil {
			return nil, err
		}
		for _, e := range list(rsp) {
			name := str(field(e, "community"))
			o := bigip.NewObject(name).
				Set("communityName", name).
				Set("source", str(field(e, "source"))).
				Set("access", access)
			objs = append(objs, o)
		}
	}
	return objs, nil
}

func (c *Client) users(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceUsers, "get_list")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, u := range list(rsp) {
		names = append(names, str(field(u, "name")))
	}
	objs := newObjects(names)
	for _, o := range objs {
		o.Set("name", o.Name)
	}
	if err := c.setEach(ctx, objs, ifaceUsers, "get_encrypted_password", "user_names", names, "encryptedPassword"); err != nil {
		return nil, err
	}
	perms, err := c.callEach(ctx, ifaceUsers, "get_user_permission", "user_names", names)
	if err != nil {
		return nil, err
	}
	for i, p := range perms {
		if l := list(p); len(l) > 0 {
			objs[i].Set("role", roleName(str(field(l[0], "role"))))
		}
	}
	return objs, nil
}

// roleName maps USER_ROLE_ADMINISTRATOR to admin and strips the enum prefix
// of the other roles.
func roleName(role string) string {
	if role == roleAdministrator {
		return "admin"
	}
	return strings.ToLower(strings.TrimPrefix(role, rolePrefix))
}

func (c *Client) ntp(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceInet, "get_ntp_server_address")
	if err != nil {
		return nil, err
	}
	return []*bigip.Object{bigip.NewObject("ntp").Set("servers", strs(rsp))}, nil
}

func (c *Client) routeDomains(ctx context.Context) ([]*bigip.Object, error) {
	names, err := c.names(ctx, ifaceRouteDom)
	if err != nil {
		return nil, err
	}
	objs := newObjects(names)
	for _, o := range objs {
		o.Set("name", o.Name)
	}
	for prop, method := range map[string]string{
		"description": "get_description",
		"id":          "get_identifier",
		"vlans":       "get_vlan",
	} {
		if err := c.setEach(ctx, objs, ifaceRouteDom, method, "route_domains", names, prop); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func (c *Client) fdb(ctx context.Context) ([]*bigip.Object, error) {
	vlans, err := c.names(ctx, ifaceVLAN)
	if err != nil {
		return nil, err
	}
	ids, err := c.callEach(ctx, ifaceVLAN, "get_vlan_id", "vlans", vlans)
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, static := range []bool{false, true} {
		method := "get_dynamic_forwarding"
		if static {
			method = "get_static_forwarding"
		}
		entries, err := c.callEach(ctx, ifaceVLAN, method, "vlans", vlans)
		if err != nil {
			return nil, err
		}
		for i, perVLAN := range entries {
			for _, e := range list(perVLAN) {
				mac := str(field(e, "mac_address"))
				objs = append(objs, bigip.NewObject(mac).
					Set("mac", mac).
					Set("vlan", vlans[i]).
					Set("vlanId", str(ids[i])).
					Set("static", static))
			}
		}
	}
	return objs, nil
}

func (c *Client) platform(ctx context.Context) ([]*bigip.Object, error) {
	info, err := c.call(ctx, ifaceSystemInfo, "get_system_information")
	if err != nil {
		return nil, err
	}
	o := bigip.NewObject(str(field(info, "system_name"))).
		Set("productCategory", str(field(info, "product_category"))).
		Set("platform", str(field(info, "platform")))
	return []*bigip.Object{o}, nil
}

// metricPairs reads metrics reported as a list of [id, value] metric pairs.
func (c *Client) metricPairs(ctx context.Context, method, key, prop string) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceSystemInfo, method)
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, m := range list(field(rsp, key)) {
		pair := list(m)
		if len(pair) < 2 {
			return nil, fmt.Errorf("%s: malformed metric %v", method, m)
		}
		objs = append(objs, bigip.NewObject(str(field(pair[0], "value"))).
			Set(prop, str(field(pair[1], "value"))))
	}
	return objs, nil
}

func (c *Client) bladeTemperature(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceSystemInfo, "get_blade_temperature")
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, s := range list(rsp) {
		objs = append(objs, bigip.NewObject(str(field(s, "location"))).
			Set("temperature", str(field(s, "temperature"))))
	}
	return objs, nil
}

func (c *Client) cpu(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceSystemInfo, "get_global_cpu_usage_extended_information")
	if err != nil {
		return nil, err
	}
	o := bigip.NewObject("global")
	setStatistics(o, field(rsp, "statistics"))
	return []*bigip.Object{o}, nil
}

func (c *Client) powerSupplies(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceSystemInfo, "get_power_supply_metrics")
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, ps := range list(field(rsp, "power_supplies")) {
		o := bigip.NewObject("")
		for _, m := range list(ps) {
			o.Set(str(field(m, "metric_type")), str(field(m, "value")))
		}
		o.Name = o.String(bigip.PSIndex)
		objs = append(objs, o)
	}
	return objs, nil
}

func (c *Client) hostStats(ctx context.Context) ([]*bigip.Object, error) {
	rsp, err := c.call(ctx, ifaceStatistics, "get_all_host_statistics")
	if err != nil {
		return nil, err
	}
	var objs []*bigip.Object
	for _, h := range list(field(rsp, "statistics")) {
		o := bigip.NewObject(str(field(h, "host_id")))
		setStatistics(o, field(h, "statistics"))
		objs = append(objs, o)
	}
	return objs, nil
}

// names calls get_list on the interface.
func (c *Client) names(ctx context.Context, iface string) ([]string, error) {
	rsp, err := c.call(ctx, iface, "get_list")
	if err != nil {
		return nil, err
	}
	return strs(rsp), nil
}

// callEach calls a method taking the list of names and checks it returned one
// value per name.
func (c *Client) callEach(ctx context.Context, iface, method, paramName string, names []string) ([]any, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rsp, err := c.call(ctx, iface, method, param{paramName, names})
	if err != nil {
		return nil, err
	}
	values := list(rsp)
	if len(values) != len(names) {
		return nil, fmt.Errorf("%s.%s: got %d values for %d names", iface, method, len(values), len(names))
	}
	return values, nil
}

func (c *Client) setEach(ctx context.Context, objs []*bigip.Object, iface, method, paramName string, names []string, prop string) error {
	values, err := c.callEach(ctx, iface, method, paramName, names)
	if err != nil {
		return err
	}
	for i, v := range values {
		objs[i].Set(prop, v)
	}
	return nil
}

// setStatistics copies a list of {type, value} statistics onto the object,
// keyed by statistic type.
func setStatistics(o *bigip.Object, stats any) {
	for _, s := range list(stats) {
		o.Set(str(field(s, "type")), field(s, "value"))
	}
}

func newObjects(names []string) []*bigip.Object {
	objs := make([]*bigip.Object, 0, len(names))
	for _, n := range names {
		objs = append(objs, bigip.NewObject(n))
	}
	return objs
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strs(v any) []string {
	l := list(v)
	r := make([]string, 0, len(l))
	for _, e := range l {
		r = append(r, str(e))
	}
	return r
}

func field(v any, key string) any {
	m, _ := v.(map[string]any)
	return m[key]
}
