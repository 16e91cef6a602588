// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package decoder turns raw bytes into the structures record readers consume:
// generic document trees for JSON, YAML, XML and CBOR, and images or frame
// sequences for media.
//
// Decoders never see locations, splits or field selections.
package decoder

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/recordkit/internal/docvalue"
)

// Document decodes one document whose root is a map.
type Document interface {
	Decode(r io.Reader) (docvalue.Value, error)
}

func rootMap(format string, raw any) (docvalue.Value, error) {
	v, err := docvalue.FromAny(raw)
	if err != nil {
		return docvalue.Value{}, fmt.Errorf("%s document: %w", format, err)
	}
	if v.Kind() != docvalue.KindMap {
		return docvalue.Value{}, fmt.Errorf("%s document root is %s, expected map", format, v.Kind())
	}
	return v, nil
}

// JSON decodes a single JSON object. Numbers keep their literal precision.
type JSON struct{}

func (JSON) Decode(r io.Reader) (docvalue.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return docvalue.Value{}, fmt.Errorf("json decode: %w", err)
	}
	return rootMap("json", raw)
}

// YAML decodes the first document of a YAML stream.
type YAML struct{}

func (YAML) Decode(r io.Reader) (docvalue.Value, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return docvalue.Value{}, errors.New("yaml decode: empty document")
		}
		return docvalue.Value{}, fmt.Errorf("yaml decode: %w", err)
	}
	return rootMap("yaml", raw)
}

var cborMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Errorf("failed to build cbor decode mode: %w", err))
	}
	return mode
}()

// CBOR decodes a single CBOR data item with string keys.
type CBOR struct{}

func (CBOR) Decode(r io.Reader) (docvalue.Value, error) {
	var raw any
	if err := cborMode.NewDecoder(r).Decode(&raw); err != nil {
		return docvalue.Value{}, fmt.Errorf("cbor decode: %w", err)
	}
	return rootMap("cbor", raw)
}

// Gzip decompresses the stream before handing it to Inner.
type Gzip struct {
	Inner Document
}

func (g Gzip) Decode(r io.Reader) (docvalue.Value, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return docvalue.Value{}, fmt.Errorf("gzip reader: %w", err)
	}
	defer func() { _ = gz.Close() }()
	return g.Inner.Decode(gz)
}

// ForExtension picks a document decoder from a file name:
//   - .json: JSON
//   - .yaml, .yml: YAML
//   - .xml: XML
//   - .cbor: CBOR
//   - any of the above with a trailing .gz: the same, gzip-compressed
func ForExtension(name string) (Document, error) {
	lower := strings.ToLower(name)
	if base, ok := strings.CutSuffix(lower, ".gz"); ok {
		inner, err := ForExtension(base)
		if err != nil {
			return nil, err
		}
		return Gzip{Inner: inner}, nil
	}

	switch {
	case strings.HasSuffix(lower, ".json"):
		return JSON{}, nil
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return YAML{}, nil
	case strings.HasSuffix(lower, ".xml"):
		return XML{}, nil
	case strings.HasSuffix(lower, ".cbor"):
		return CBOR{}, nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", name)
	}
}
