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

package driver

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

const defaultInstance = "default"

// instanceName is the last path element of the route domain. Route domain 0
// is the default instance.
func instanceName(routeDomain string) string {
	n := path.Base(routeDomain)
	if n == "0" {
		return defaultInstance
	}
	return n
}

// GetNetworkInstances returns the route domains as network instances. With a
// name only that instance is returned, empty if it does not exist.
func (d *Driver) GetNetworkInstances(ctx context.Context, name string) (map[string]types.NetworkInstance, error) {
	const op = "get_network_instances"
	rds, err := d.query(ctx, op, bigip.ResourceRouteDomains)
	if err != nil {
		return nil, err
	}
	r := make(map[string]types.NetworkInstance, len(rds))
	for _, rd := range rds {
		n := instanceName(rd.Name)
		typ := types.InstanceTypeL3VRF
		if n == defaultInstance {
			typ = types.InstanceTypeDefault
		}
		vlans := rd.Strings("vlans")
		ifs := make(map[string]struct{}, len(vlans))
		for _, v := range vlans {
			ifs[v] = struct{}{}
		}
		r[n] = types.NetworkInstance{
			Name:       n,
			Type:       typ,
			State:      &types.NetworkInstanceState{RouteDistinguisher: rd.String("id")},
			Interfaces: &types.NetworkInstanceInterface{Interface: ifs},
		}
	}
	if name != "" {
		return map[string]types.NetworkInstance{name: r[name]}, nil
	}
	return r, nil
}

func (d *Driver) GetMACAddressTable(ctx context.Context) ([]types.MACEntry, error) {
	const op = "get_mac_address_table"
	fdb, err := d.query(ctx, op, bigip.ResourceFDB)
	if err != nil {
		return nil, err
	}
	r := make([]types.MACEntry, 0, len(fdb))
	for _, e := range fdb {
		vlan, err := strconv.Atoi(e.String("vlanId"))
		if err != nil {
			return nil, opError(op, ErrConnection, fmt.Errorf("mac %s: vlan id: %w", e.Name, err))
		}
		r = append(r, types.MACEntry{
			MAC:       e.String("mac"),
			Interface: e.String("vlan"),
			VLAN:      vlan,
			Static:    e.Bool("static"),
			Active:    true,
		})
	}
	return r, nil
}
