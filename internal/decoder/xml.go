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

package decoder

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cardinalhq/recordkit/internal/docvalue"
)

// XML decodes an XML document into a map tree. The root element becomes the
// document map. Attributes and child elements become keys, repeated child
// elements become a list, and an element with only character data becomes
// text. Character data mixed with children is stored under the "" key.
type XML struct{}

func (XML) Decode(r io.Reader) (docvalue.Value, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return docvalue.Value{}, errors.New("xml decode: no root element")
			}
			return docvalue.Value{}, fmt.Errorf("xml decode: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err := xmlElement(d, start, true)
			if err != nil {
				return docvalue.Value{}, fmt.Errorf("xml decode: %w", err)
			}
			return root, nil
		}
	}
}

func xmlElement(d *xml.Decoder, start xml.StartElement, root bool) (docvalue.Value, error) {
	groups := map[string][]docvalue.Value{}
	var order []string
	add := func(key string, v docvalue.Value) {
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	for _, a := range start.Attr {
		add(a.Name.Local, docvalue.Text(a.Value))
	}

	var text strings.Builder
	children := false
	for {
		tok, err := d.Token()
		if err != nil {
			return docvalue.Value{}, fmt.Errorf("element %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := xmlElement(d, t, false)
			if err != nil {
				return docvalue.Value{}, err
			}
			add(t.Name.Local, child)
			children = true
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			body := strings.TrimSpace(text.String())
			if !root && !children && len(start.Attr) == 0 {
				return docvalue.Text(body), nil
			}
			if body != "" {
				add("", docvalue.Text(body))
			}
			items := make(map[string]docvalue.Value, len(order))
			for _, k := range order {
				vs := groups[k]
				if len(vs) == 1 {
					items[k] = vs[0]
				} else {
					items[k] = docvalue.List(vs...)
				}
			}
			return docvalue.Map(items), nil
		}
	}
}
