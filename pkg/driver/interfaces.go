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
	"strconv"
	"strings"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// speed tokens of the active media descriptor, scanned in order
var mediaSpeeds = []int64{100000, 40000, 10000, 1000, 100}

// Speed derives the link speed in Mbit/s from an active media descriptor
// such as 10000SR-FD. The first matching token wins, -1 if none matches.
func Speed(media string) int64 {
	for _, s := range mediaSpeeds {
		if strings.Contains(media, strconv.FormatInt(s, 10)) {
			return s
		}
	}
	return -1
}

// linkUp uses the media status when the transport reports it, otherwise any
// active media but none counts as up.
func linkUp(o *bigip.Object) bool {
	if o.Has("status") {
		switch strings.ToUpper(o.String("status")) {
		case "MEDIA_STATUS_UP", "UP":
			return true
		}
		return false
	}
	media := o.String("mediaActive")
	return media != "" && media != "none"
}

func (d *Driver) GetInterfaces(ctx context.Context) (map[string]types.Interface, error) {
	const op = "get_interfaces"
	ifs, err := d.query(ctx, op, bigip.ResourceInterfaces)
	if err != nil {
		return nil, err
	}
	r := make(map[string]types.Interface, len(ifs))
	for _, i := range ifs {
		r[i.Name] = types.Interface{
			IsUp:        linkUp(i),
			IsEnabled:   i.Bool("enabled"),
			Description: i.String("description"),
			LastFlapped: -1.0,
			Speed:       Speed(i.String("mediaActive")),
			MACAddress:  i.String("macAddress"),
		}
	}
	return r, nil
}
