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
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/recordkit/internal/docvalue"
)

func lookupText(t *testing.T, v docvalue.Value, path ...string) string {
	t.Helper()
	cur := v
	for _, k := range path {
		next, ok := cur.Lookup(k)
		require.True(t, ok, "missing key %q", k)
		cur = next
	}
	return cur.String()
}

func TestDocumentFormatsAgree(t *testing.T) {
	cborBytes, err := cbor.Marshal(map[string]any{
		"a": "5",
		"b": map[string]any{"c": "x"},
		"n": 3,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		dec  Document
		in   []byte
	}{
		{"json", JSON{}, []byte(`{"a": "5", "b": {"c": "x"}, "n": 3}`)},
		{"yaml", YAML{}, []byte("a: \"5\"\nb:\n  c: x\nn: 3\n")},
		{"xml", XML{}, []byte(`<doc><a>5</a><b><c>x</c></b><n>3</n></doc>`)},
		{"cbor", CBOR{}, cborBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.dec.Decode(bytes.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, docvalue.KindMap, v.Kind())
			assert.Equal(t, "5", lookupText(t, v, "a"))
			assert.Equal(t, "x", lookupText(t, v, "b", "c"))
			assert.Equal(t, "3", lookupText(t, v, "n"))
		})
	}
}

func TestJSONKeepsNumberLiteral(t *testing.T) {
	v, err := JSON{}.Decode(strings.NewReader(`{"big": 12345678901234567890, "huge": 123456789012345678901234567890, "f": 1.50}`))
	require.NoError(t, err)

	big, _ := v.Lookup("big")
	s, ok := big.NumberText()
	require.True(t, ok)
	assert.Equal(t, "12345678901234567890", s)

	huge, _ := v.Lookup("huge")
	s, ok = huge.NumberText()
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", s)

	f, _ := v.Lookup("f")
	s, _ = f.NumberText()
	assert.Equal(t, "1.5", s)
}

func TestDocumentRootMustBeMap(t *testing.T) {
	_, err := JSON{}.Decode(strings.NewReader(`[1, 2]`))
	assert.ErrorContains(t, err, "root is list")

	_, err = YAML{}.Decode(strings.NewReader("- a\n- b\n"))
	assert.ErrorContains(t, err, "root is list")

	_, err = YAML{}.Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestJSONMalformed(t *testing.T) {
	_, err := JSON{}.Decode(strings.NewReader(`{"a": `))
	assert.Error(t, err)
}

func TestXMLStructure(t *testing.T) {
	in := `<?xml version="1.0"?>
<record id="7">
  <tag>red</tag>
  <tag>blue</tag>
  <empty/>
  <note lang="en">hello</note>
</record>`

	v, err := XML{}.Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "7", lookupText(t, v, "id"))

	tags, ok := v.Lookup("tag")
	require.True(t, ok)
	assert.Equal(t, docvalue.KindList, tags.Kind())
	assert.Equal(t, 2, tags.Len())

	assert.Equal(t, "", lookupText(t, v, "empty"))

	note, ok := v.Lookup("note")
	require.True(t, ok)
	assert.Equal(t, docvalue.KindMap, note.Kind())
	assert.Equal(t, "en", lookupText(t, note, "lang"))
	assert.Equal(t, "hello", lookupText(t, note, ""))
}

func TestXMLNoRoot(t *testing.T) {
	_, err := XML{}.Decode(strings.NewReader(`<?xml version="1.0"?>`))
	assert.Error(t, err)

	_, err = XML{}.Decode(strings.NewReader(`<a><b></a>`))
	assert.Error(t, err)
}

func TestForExtension(t *testing.T) {
	tests := []struct {
		name string
		want Document
	}{
		{"doc.json", JSON{}},
		{"doc.YAML", YAML{}},
		{"doc.yml", YAML{}},
		{"doc.xml", XML{}},
		{"doc.cbor", CBOR{}},
		{"doc.json.gz", Gzip{Inner: JSON{}}},
	}
	for _, tt := range tests {
		got, err := ForExtension(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ForExtension("doc.csv")
	assert.Error(t, err)
	_, err = ForExtension("doc.csv.gz")
	assert.Error(t, err)
}

func TestGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"a": "zipped"}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	v, err := Gzip{Inner: JSON{}}.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "zipped", lookupText(t, v, "a"))

	_, err = Gzip{Inner: JSON{}}.Decode(strings.NewReader("not gzip"))
	assert.Error(t, err)
}
