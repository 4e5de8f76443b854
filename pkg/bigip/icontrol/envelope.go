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

package icontrol

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

const (
	nsEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
	nsEncoding = "http://schemas.xmlsoap.org/soap/encoding/"
	nsXSI      = "http://www.w3.org/2001/XMLSchema-instance"
	nsXSD      = "http://www.w3.org/2001/XMLSchema"
	urnPrefix  = "urn:iControl:"
)

// param is a named method argument. Values are encoded by encodeValue.
type param struct {
	name  string
	value any
}

// envelopeBuilder renders a method call into a SOAP envelope.
type envelopeBuilder struct {
	doc *etree.Document
}

func newEnvelopeBuilder() *envelopeBuilder {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return &envelopeBuilder{doc: doc}
}

// build creates the envelope for interface.method, interface being the
// Module.Interface name, e.g. Networking.Interfaces
func (b *envelopeBuilder) build(iface, method string, params ...param) ([]byte, error) {
	env := b.doc.CreateElement("SOAP-ENV:Envelope")
	env.CreateAttr("xmlns:SOAP-ENV", nsEnvelope)
	env.CreateAttr("xmlns:SOAP-ENC", nsEncoding)
	env.CreateAttr("xmlns:xsi", nsXSI)
	env.CreateAttr("xmlns:xsd", nsXSD)
	env.CreateAttr("SOAP-ENV:encodingStyle", nsEncoding)

	body := env.CreateElement("SOAP-ENV:Body")
	call := body.CreateElement("m:" + method)
	call.CreateAttr("xmlns:m", urn(iface))
	for _, p := range params {
		if err := encodeValue(call.CreateElement(p.name), p.value); err != nil {
			return nil, fmt.Errorf("%s.%s parameter %s: %w", iface, method, p.name, err)
		}
	}
	return b.doc.WriteToBytes()
}

// urn maps Module.Interface to the iControl namespace urn:iControl:Module/Interface.
func urn(iface string) string {
	for i := len(iface) - 1; i >= 0; i-- {
		if iface[i] == '.' {
			return urnPrefix + iface[:i] + "/" + iface[i+1:]
		}
	}
	return urnPrefix + iface
}

func encodeValue(el *etree.Element, v any) error {
	switch v := v.(type) {
	case nil:
	case string:
		el.SetText(v)
	case bool:
		el.SetText(strconv.FormatBool(v))
	case int:
		el.SetText(strconv.Itoa(v))
	case int64:
		el.SetText(strconv.FormatInt(v, 10))
	case []string:
		for _, s := range v {
			el.CreateElement("item").SetText(s)
		}
	case []any:
		for _, e := range v {
			if err := encodeValue(el.CreateElement("item"), e); err != nil {
				return err
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeValue(el.CreateElement(k), v[k]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// Fault is a SOAP fault returned by the portal.
type Fault struct {
	Code   string
	String string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.String)
}

// decodeResponse extracts the return value of a method response. Leaves
// become strings, arrays become []any and structures map[string]any. A
// response without return value yields nil.
func decodeResponse(b []byte) (any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	env := doc.Root()
	if env == nil || env.Tag != "Envelope" {
		return nil, fmt.Errorf("response is not a SOAP envelope")
	}
	body := child(env, "Body")
	if body == nil {
		return nil, fmt.Errorf("SOAP envelope without body")
	}
	rsp := firstChild(body)
	if rsp == nil {
		return nil, nil
	}
	if rsp.Tag == "Fault" {
		return nil, decodeFault(rsp)
	}
	ret := child(rsp, "return")
	if ret == nil {
		return nil, nil
	}
	return decodeValue(ret), nil
}

func decodeFault(el *etree.Element) *Fault {
	f := &Fault{}
	if c := child(el, "faultcode"); c != nil {
		f.Code = c.Text()
	}
	if c := child(el, "faultstring"); c != nil {
		f.String = c.Text()
	}
	return f
}

func decodeValue(el *etree.Element) any {
	children := el.ChildElements()
	isArray := el.SelectAttr("arrayType") != nil
	if len(children) == 0 {
		if isArray {
			return []any{}
		}
		return el.Text()
	}
	if !isArray {
		isArray = true
		for _, c := range children {
			if c.Tag != "item" {
				isArray = false
				break
			}
		}
	}
	if isArray {
		r := make([]any, 0, len(children))
		for _, c := range children {
			r = append(r, decodeValue(c))
		}
		return r
	}
	r := make(map[string]any, len(children))
	for _, c := range children {
		r[c.Tag] = decodeValue(c)
	}
	return r
}

// child returns the first child element with the given local name.
func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func firstChild(el *etree.Element) *etree.Element {
	children := el.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
