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
	"strings"
	"unicode"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// GetFacts returns the device inventory. The hostname doubles as FQDN.
func (d *Driver) GetFacts(ctx context.Context) (*types.Facts, error) {
	const op = "get_facts"
	dev, err := d.queryOne(ctx, op, bigip.ResourceDevice)
	if err != nil {
		return nil, err
	}
	uptime := dev.String("uptime")
	if !dev.Has("uptime") {
		uptime, err = d.exec(ctx, op, "uptime")
		if err != nil {
			return nil, err
		}
	}
	ifs, err := d.query(ctx, op, bigip.ResourceInterfaces)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ifs))
	for _, i := range ifs {
		names = append(names, i.Name)
	}

	hostname := dev.String("hostname")
	return &types.Facts{
		Uptime:        strings.TrimLeftFunc(uptime, unicode.IsSpace),
		Vendor:        Vendor,
		Model:         dev.String("marketingName"),
		Hostname:      hostname,
		FQDN:          hostname,
		OSVersion:     dev.String("version"),
		SerialNumber:  dev.String("chassisId"),
		InterfaceList: names,
	}, nil
}
