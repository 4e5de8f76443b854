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
	"math"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// Convert64 combines the signed or unsigned 32-bit halves of a 64-bit
// counter. Halves outside of the 32-bit range are rejected.
func Convert64(high, low int64) (uint64, error) {
	h, err := unsignedHalf(high)
	if err != nil {
		return 0, fmt.Errorf("high: %w", err)
	}
	l, err := unsignedHalf(low)
	if err != nil {
		return 0, fmt.Errorf("low: %w", err)
	}
	return h<<32 | l, nil
}

func unsignedHalf(v int64) (uint64, error) {
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%d is not a 32-bit value", v)
	}
	if v < 0 {
		v += 1 << 32
	}
	return uint64(v), nil
}

// counterValue reads a counter reported either as {high, low} pair or as a
// plain number.
func counterValue(v any) (int64, error) {
	pair, ok := v.(map[string]any)
	if !ok {
		return bigip.ToInt64(v)
	}
	high, err := bigip.ToInt64(pair["high"])
	if err != nil {
		return 0, fmt.Errorf("high: %w", err)
	}
	low, err := bigip.ToInt64(pair["low"])
	if err != nil {
		return 0, fmt.Errorf("low: %w", err)
	}
	u, err := Convert64(high, low)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("counter %d overflows int64", u)
	}
	return int64(u), nil
}

// counter fields by statistic type
var counterFields = map[string]func(*types.InterfaceCounters) *int64{
	bigip.StatErrorsIn:      func(c *types.InterfaceCounters) *int64 { return &c.RxErrors },
	bigip.StatErrorsOut:     func(c *types.InterfaceCounters) *int64 { return &c.TxErrors },
	bigip.StatDroppedIn:     func(c *types.InterfaceCounters) *int64 { return &c.RxDiscards },
	bigip.StatDroppedOut:    func(c *types.InterfaceCounters) *int64 { return &c.TxDiscards },
	bigip.StatBytesIn:       func(c *types.InterfaceCounters) *int64 { return &c.RxOctets },
	bigip.StatBytesOut:      func(c *types.InterfaceCounters) *int64 { return &c.TxOctets },
	bigip.StatPacketsIn:     func(c *types.InterfaceCounters) *int64 { return &c.RxUnicastPackets },
	bigip.StatPacketsOut:    func(c *types.InterfaceCounters) *int64 { return &c.TxUnicastPackets },
	bigip.StatMulticastsIn:  func(c *types.InterfaceCounters) *int64 { return &c.RxMulticastPackets },
	bigip.StatMulticastsOut: func(c *types.InterfaceCounters) *int64 { return &c.TxMulticastPackets },
}

// GetInterfacesCounters returns the traffic counters per interface. Counters
// the device does not report, broadcasts among them, are -1.
func (d *Driver) GetInterfacesCounters(ctx context.Context) (map[string]types.InterfaceCounters, error) {
	const op = "get_interfaces_counters"
	stats, err := d.query(ctx, op, bigip.ResourceInterfaceStats)
	if err != nil {
		return nil, err
	}
	r := make(map[string]types.InterfaceCounters, len(stats))
	for _, s := range stats {
		c := unknownCounters()
		for tag, field := range counterFields {
			v, ok := s.Properties[tag]
			if !ok {
				continue
			}
			n, err := counterValue(v)
			if err != nil {
				return nil, opError(op, ErrConnection, fmt.Errorf("interface %s %s: %w", s.Name, tag, err))
			}
			*field(&c) = n
		}
		r[s.Name] = c
	}
	return r, nil
}

func unknownCounters() types.InterfaceCounters {
	return types.InterfaceCounters{
		TxErrors: -1, RxErrors: -1,
		TxDiscards: -1, RxDiscards: -1,
		TxOctets: -1, RxOctets: -1,
		TxUnicastPackets: -1, RxUnicastPackets: -1,
		TxMulticastPackets: -1, RxMulticastPackets: -1,
		TxBroadcastPackets: -1, RxBroadcastPackets: -1,
	}
}
