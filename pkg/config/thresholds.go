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

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

//go:embed thresholds.yaml
var defaultThresholds []byte

// Thresholds holds the per hardware model temperature limits.
type Thresholds struct {
	AlertRatio float64                           `yaml:"alert-ratio,omitempty" json:"alert-ratio,omitempty"`
	Models     map[string]map[string]SensorLimit `yaml:"models,omitempty" json:"models,omitempty"`
}

type SensorLimit struct {
	Critical float64 `yaml:"critical,omitempty" json:"critical,omitempty"`
	Location string  `yaml:"location,omitempty" json:"location,omitempty"`
}

// DefaultThresholds returns a fresh copy of the built-in table.
func DefaultThresholds() (*Thresholds, error) {
	return parseThresholds(defaultThresholds)
}

func LoadThresholds(file string) (*Thresholds, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return parseThresholds(b)
}

func parseThresholds(b []byte) (*Thresholds, error) {
	t := new(Thresholds)
	err := yaml.UnmarshalStrict(b, t)
	if err != nil {
		return nil, err
	}
	return t, t.validateSetDefaults()
}

func (t *Thresholds) validateSetDefaults() error {
	if t.AlertRatio == 0 {
		t.AlertRatio = 1
	}
	if t.AlertRatio < 0 || t.AlertRatio > 1 {
		return fmt.Errorf("alert-ratio must be within (0, 1], got %v", t.AlertRatio)
	}
	var errs []error
	for model, sensors := range t.Models {
		for id, l := range sensors {
			if l.Critical <= 0 {
				errs = append(errs, fmt.Errorf("model %s sensor %q: critical level must be positive", model, id))
			}
			if l.Location == "" {
				l.Location = id
				sensors[id] = l
			}
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the limit of a sensor of the given model.
func (t *Thresholds) Lookup(model, sensor string) (SensorLimit, bool) {
	sensors, ok := t.Models[model]
	if !ok {
		return SensorLimit{}, false
	}
	l, ok := sensors[sensor]
	return l, ok
}

func (t *Thresholds) HasModel(model string) bool {
	_, ok := t.Models[model]
	return ok
}
