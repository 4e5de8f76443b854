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

package bigip

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Object is a single entry of a queried resource.
type Object struct {
	Name       string
	Properties map[string]any
}

func NewObject(name string) *Object {
	return &Object{
		Name:       name,
		Properties: map[string]any{},
	}
}

func (o *Object) Set(key string, value any) *Object {
	o.Properties[key] = value
	return o
}

func (o *Object) Has(key string) bool {
	_, ok := o.Properties[key]
	return ok
}

// String returns the property as string, "" if absent or null.
func (o *Object) String(key string) string {
	v, ok := o.Properties[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return fmt.Sprint(v)
}

// Bool interprets true/false, "true"/"false", "enabled"/"disabled" and
// non-zero numbers.
func (o *Object) Bool(key string) bool {
	switch v := o.Properties[key].(type) {
	case bool:
		return v
	case string:
		switch v {
		case "true", "enabled", "STATE_ENABLED", "1":
			return true
		}
		return false
	}
	i, err := o.Int(key)
	return err == nil && i != 0
}

func (o *Object) Int(key string) (int64, error) {
	v, ok := o.Properties[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("property %q not set on %q", key, o.Name)
	}
	return ToInt64(v)
}

func (o *Object) Float(key string) (float64, error) {
	v, ok := o.Properties[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("property %q not set on %q", key, o.Name)
	}
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	}
	i, err := ToInt64(v)
	return float64(i), err
}

// Strings returns a list property, accepting []string and []any.
func (o *Object) Strings(key string) []string {
	switch v := o.Properties[key].(type) {
	case []string:
		return v
	case []any:
		r := make([]string, 0, len(v))
		for _, e := range v {
			r = append(r, fmt.Sprint(e))
		}
		return r
	}
	return nil
}

// ToInt64 converts the numeric representations produced by the JSON and XML
// decoders.
func ToInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("unexpected numeric value %v (%T)", v, v)
}
