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

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

const (
	noACL = "N/A"
	// privilege level of administrators
	adminLevel = 15
)

func (d *Driver) GetSNMPInformation(ctx context.Context) (*types.SNMP, error) {
	const op = "get_snmp_information"
	snmp, err := d.queryOne(ctx, op, bigip.ResourceSNMP)
	if err != nil {
		return nil, err
	}
	dev, err := d.queryOne(ctx, op, bigip.ResourceDevice)
	if err != nil {
		return nil, err
	}
	communities, err := d.query(ctx, op, bigip.ResourceSNMPCommunities)
	if err != nil {
		return nil, err
	}
	r := &types.SNMP{
		ChassisID: dev.String("chassisId"),
		Community: make(map[string]types.SNMPCommunity, len(communities)),
		Contact:   snmp.String("sysContact"),
		Location:  snmp.String("sysLocation"),
	}
	for _, c := range communities {
		name := c.String("communityName")
		if name == "" {
			name = c.Name
		}
		acl := c.String("source")
		if acl == "" {
			acl = noACL
		}
		r.Community[name] = types.SNMPCommunity{
			ACL:  acl,
			Mode: c.String("access"),
		}
	}
	return r, nil
}

// GetUsers returns the local users. Administrators get level 15, everyone
// else 0.
func (d *Driver) GetUsers(ctx context.Context) (map[string]types.User, error) {
	const op = "get_users"
	users, err := d.query(ctx, op, bigip.ResourceUsers)
	if err != nil {
		return nil, err
	}
	r := make(map[string]types.User, len(users))
	for _, u := range users {
		level := 0
		if u.String("role") == "admin" {
			level = adminLevel
		}
		r[u.Name] = types.User{
			Level:    level,
			Password: u.String("encryptedPassword"),
			SSHKeys:  []string{},
		}
	}
	return r, nil
}

func (d *Driver) GetNTPServers(ctx context.Context) (map[string]types.NTPServer, error) {
	const op = "get_ntp_servers"
	ntp, err := d.queryOne(ctx, op, bigip.ResourceNTP)
	if err != nil {
		return nil, err
	}
	servers := ntp.Strings("servers")
	r := make(map[string]types.NTPServer, len(servers))
	for _, s := range servers {
		r[s] = types.NTPServer{}
	}
	return r, nil
}
