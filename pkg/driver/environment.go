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

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/bigip-driver/pkg/bigip"
	"github.com/sdcio/bigip-driver/pkg/config"
	"github.com/sdcio/bigip-driver/pkg/driver/types"
)

// power supply metrics that must all be positive for a healthy supply
var powerSupplyStates = []string{
	bigip.PSIndex,
	bigip.PSState,
	bigip.PSInputState,
	bigip.PSOutputState,
	bigip.PSFanState,
}

// GetEnvironment returns the hardware health of the device. Temperatures are
// only reported for models with known thresholds.
func (d *Driver) GetEnvironment(ctx context.Context) (*types.Environment, error) {
	const op = "get_environment"
	platform, err := d.queryOne(ctx, op, bigip.ResourcePlatform)
	if err != nil {
		return nil, err
	}
	model := platform.String("productCategory") + "_" + platform.String("platform")

	env := &types.Environment{
		Fans:        map[string]types.Fan{},
		Temperature: map[string]types.Temperature{},
		Power:       map[string]types.Power{},
		CPU:         map[string]types.CPU{},
	}
	if err := d.temperatures(ctx, op, model, env.Temperature); err != nil {
		return nil, err
	}

	fans, err := d.query(ctx, op, bigip.ResourceFans)
	if err != nil {
		return nil, err
	}
	for _, f := range fans {
		state, err := f.Int("state")
		env.Fans[f.Name] = types.Fan{Status: err == nil && state == 1}
	}

	cpu, err := d.queryOne(ctx, op, bigip.ResourceCPU)
	if err != nil {
		return nil, err
	}
	usage := -1.0
	if v, ok := cpu.Properties[bigip.StatCPUOneMinAvgUsage]; ok {
		n, err := counterValue(v)
		if err != nil {
			return nil, opError(op, ErrConnection, fmt.Errorf("cpu usage: %w", err))
		}
		usage = float64(n)
	}
	env.CPU["0"] = types.CPU{Usage: usage}

	supplies, err := d.query(ctx, op, bigip.ResourcePowerSupplies)
	if err != nil {
		return nil, err
	}
	for _, ps := range supplies {
		env.Power[ps.Name] = types.Power{
			Status:   powerSupplyOK(ps),
			Capacity: -1.0,
			Output:   -1.0,
		}
	}

	hosts, err := d.query(ctx, op, bigip.ResourceHostStats)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, h := range hosts {
		t, err := counterValue(h.Properties[bigip.StatMemoryTotal])
		if err != nil {
			return nil, opError(op, ErrConnection, fmt.Errorf("host %s memory total: %w", h.Name, err))
		}
		u, err := counterValue(h.Properties[bigip.StatMemoryUsed])
		if err != nil {
			return nil, opError(op, ErrConnection, fmt.Errorf("host %s memory used: %w", h.Name, err))
		}
		total += t
		env.Memory.UsedRAM += u
	}
	env.Memory.AvailableRAM = total - env.Memory.UsedRAM
	return env, nil
}

func (d *Driver) temperatures(ctx context.Context, op, model string, into map[string]types.Temperature) error {
	th, err := d.getThresholds()
	if err != nil {
		return opError(op, ErrLocalIO, err)
	}
	if !th.HasModel(model) {
		log.Debugf("%s: no temperature thresholds for model %s", d.cfg.Name, model)
		return nil
	}
	for _, res := range []bigip.Resource{bigip.ResourceTemperature, bigip.ResourceBladeTemperature} {
		sensors, err := d.query(ctx, op, res)
		if err != nil {
			return err
		}
		for _, s := range sensors {
			limit, ok := th.Lookup(model, s.Name)
			if !ok {
				log.Warnf("%s: no threshold for sensor %q of model %s", d.cfg.Name, s.Name, model)
				continue
			}
			v, err := s.Float("temperature")
			if err != nil {
				return opError(op, ErrConnection, fmt.Errorf("sensor %s: %w", s.Name, err))
			}
			into[limit.Location] = types.Temperature{
				Temperature: v,
				IsAlert:     v >= limit.Critical*th.AlertRatio,
				IsCritical:  v >= limit.Critical,
			}
		}
	}
	return nil
}

func (d *Driver) getThresholds() (*config.Thresholds, error) {
	if d.thresholds != nil {
		return d.thresholds, nil
	}
	th, err := config.DefaultThresholds()
	if err != nil {
		return nil, err
	}
	d.thresholds = th
	return th, nil
}

func powerSupplyOK(ps *bigip.Object) bool {
	for _, k := range powerSupplyStates {
		v, err := ps.Int(k)
		if err != nil || v <= 0 {
			return false
		}
	}
	return true
}
