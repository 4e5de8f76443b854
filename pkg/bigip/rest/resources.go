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

package rest

import (
	"context"
	"fmt"
	"sort"

	"github.com/sdcio/bigip-driver/pkg/bigip"
)

type collection struct {
	Items []map[string]any `json:"items"`
}

type statsResponse struct {
	Entries map[string]struct {
		NestedStats struct {
			Entries map[string]statValue `json:"entries"`
		} `json:"nestedStats"`
	} `json:"entries"`
}

type statValue struct {
	Value       any    `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// interface counters reported by net/interface/stats
var interfaceStats = map[string]struct {
	tag     string
	divisor int64
}{
	"counters.bitsIn":    {bigip.StatBytesIn, 8},
	"counters.bitsOut":   {bigip.StatBytesOut, 8},
	"counters.dropsIn":   {bigip.StatDroppedIn, 1},
	"counters.dropsOut":  {bigip.StatDroppedOut, 1},
	"counters.errorsIn":  {bigip.StatErrorsIn, 1},
	"counters.errorsOut": {bigip.StatErrorsOut, 1},
	"counters.mcastIn":   {bigip.StatMulticastsIn, 1},
	"counters.mcastOut":  {bigip.StatMulticastsOut, 1},
	"counters.pktsIn":    {bigip.StatPacketsIn, 1},
	"counters.pktsOut":   {bigip.StatPacketsOut, 1},
}

func (c *Client) Query(ctx context.Context, resource bigip.Resource) ([]*bigip.Object, error) {
	switch resource {
	case bigip.ResourceDevice, bigip.ResourceSelfIPs, bigip.ResourceSNMPCommunities:
		return c.items(ctx, resource, nil)
	case bigip.ResourceInterfaces:
		return c.items(ctx, resource, normalizeInterface)
	case bigip.ResourceUsers:
		return c.items(ctx, resource, normalizeUser)
	case bigip.ResourceSNMP:
		return c.snmp(ctx)
	case bigip.ResourceNTP:
		return c.ntp(ctx)
	case bigip.ResourceInterfaceStats:
		return c.interfaceStats(ctx)
	}
	return nil, fmt.Errorf("%s: %w", resource, bigip.ErrUnsupported)
}

func resourcePath(resource bigip.Resource) string {
	return "mgmt/tm/" + string(resource)
}

func (c *Client) items(ctx context.Context, resource bigip.Resource, normalize func(*bigip.Object)) ([]*bigip.Object, error) {
	rsp := new(collection)
	if err := c.call(ctx, "get", resourcePath(resource), nil, rsp); err != nil {
		return nil, err
	}
	objs := make([]*bigip.Object, 0, len(rsp.Items))
	for _, item := range rsp.Items {
		o := &bigip.Object{Properties: item}
		o.Name = o.String("name")
		if normalize != nil {
			normalize(o)
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func (c *Client) snmp(ctx context.Context) ([]*bigip.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snmp, err := c.session.SNMPs()
	if err != nil {
		return nil, apiError(err)
	}
	o := bigip.NewObject("snmp").
		Set("sysContact", snmp.SysContact).
		Set("sysLocation", snmp.SysLocation).
		Set("allowedAddresses", snmp.AllowedAddresses)
	return []*bigip.Object{o}, nil
}

func (c *Client) ntp(ctx context.Context) ([]*bigip.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ntp, err := c.session.NTPs()
	if err != nil {
		return nil, apiError(err)
	}
	o := bigip.NewObject("ntp").
		Set("servers", ntp.Servers).
		Set("timezone", ntp.Timezone)
	return []*bigip.Object{o}, nil
}

// interfaceStats flattens the nested stats entries into one object per
// interface carrying statistic type tags.
func (c *Client) interfaceStats(ctx context.Context) ([]*bigip.Object, error) {
	rsp := new(statsResponse)
	if err := c.call(ctx, "get", resourcePath(bigip.ResourceInterfaceStats), nil, rsp); err != nil {
		return nil, err
	}
	objs := make([]*bigip.Object, 0, len(rsp.Entries))
	for _, e := range rsp.Entries {
		entries := e.NestedStats.Entries
		o := bigip.NewObject(entries["tmName"].Description)
		if s, ok := entries["status"]; ok {
			o.Set("status", s.Description)
		}
		for key, st := range interfaceStats {
			v, ok := entries[key]
			if !ok || v.Value == nil {
				continue
			}
			n, err := bigip.ToInt64(v.Value)
			if err != nil {
				return nil, fmt.Errorf("interface %s %s: %w", o.Name, key, err)
			}
			o.Set(st.tag, n/st.divisor)
		}
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	return objs, nil
}

// normalizeInterface maps the enabled/disabled flag pair to enabled.
func normalizeInterface(o *bigip.Object) {
	switch {
	case o.Bool("disabled"):
		o.Set("enabled", false)
	case !o.Has("enabled"):
		o.Set("enabled", true)
	}
}

// normalizeUser exposes the role of the first partition access entry.
func normalizeUser(o *bigip.Object) {
	pa, ok := o.Properties["partitionAccess"].([]any)
	if !ok || len(pa) == 0 {
		return
	}
	if first, ok := pa[0].(map[string]any); ok {
		if role, ok := first["role"].(string); ok {
			o.Set("role", role)
		}
	}
}
