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
	"math/bits"
	"net"
	"strconv"
	"strings"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// PrefixLength counts the set bits of a dotted or colon notation netmask.
func PrefixLength(netmask string) (int, error) {
	ip := net.ParseIP(netmask)
	if ip == nil {
		return 0, fmt.Errorf("invalid netmask %q", netmask)
	}
	b := []byte(ip.To16())
	if v4 := ip.To4(); v4 != nil && !strings.Contains(netmask, ":") {
		b = v4
	}
	n := 0
	for _, o := range b {
		n += bits.OnesCount8(o)
	}
	return n, nil
}

// splitSelfAddress splits a self IP address of the form
// addr[%route-domain][/len] and resolves the prefix length from the netmask
// when the address carries none.
func splitSelfAddress(address, netmask string) (string, int, error) {
	addr, length, hasLength := strings.Cut(address, "/")
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		addr = addr[:i]
	}
	if hasLength {
		n, err := strconv.Atoi(length)
		if err != nil {
			return "", 0, fmt.Errorf("address %q: %w", address, err)
		}
		return addr, n, nil
	}
	n, err := PrefixLength(netmask)
	return addr, n, err
}

// GetInterfacesIP returns the self IPs keyed by their VLAN.
func (d *Driver) GetInterfacesIP(ctx context.Context) (map[string]types.InterfaceIP, error) {
	const op = "get_interfaces_ip"
	selfs, err := d.query(ctx, op, bigip.ResourceSelfIPs)
	if err != nil {
		return nil, err
	}
	r := make(map[string]types.InterfaceIP)
	for _, s := range selfs {
		addr, length, err := splitSelfAddress(s.String("address"), s.String("netmask"))
		if err != nil {
			return nil, opError(op, ErrConnection, fmt.Errorf("self ip %s: %w", s.Name, err))
		}
		// keyed by VLAN rather than by the self IP path, so addresses of the
		// same VLAN share an entry
		key := s.String("vlan")
		if key == "" {
			key = s.String("fullPath")
		}
		ifc := r[key]
		p := types.Prefix{PrefixLength: length}
		if strings.Contains(addr, ":") {
			if ifc.IPv6 == nil {
				ifc.IPv6 = map[string]types.Prefix{}
			}
			ifc.IPv6[addr] = p
		} else {
			if ifc.IPv4 == nil {
				ifc.IPv4 = map[string]types.Prefix{}
			}
			ifc.IPv4[addr] = p
		}
		r[key] = ifc
	}
	return r, nil
}
