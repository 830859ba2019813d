package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces/codec"
	"github.com/faciam-dev/urlpreview/pkg/iface"
	"github.com/faciam-dev/urlpreview/pkg/iface/urlpreview"
)

func TestCodecRoundTrip(t *testing.T) {
	in := []iface.Descriptor{urlpreview.Definition()}
	b, err := codec.EncodeYAML(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := codec.DecodeYAML(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONDocument(t *testing.T) {
	in := []iface.Descriptor{urlpreview.Definition()}
	b, err := codec.EncodeJSON(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := codec.DecodeYAML(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSingleDescriptor(t *testing.T) {
	src := []byte(`id: color
name: Color
component: color-picker
types: [string]
options:
  - field: alpha
    name: Alpha
    type: boolean
`)
	out, err := codec.DecodeYAML(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "color" || out[0].ComponentName() != "color-picker" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	if _, err := codec.DecodeYAML([]byte("version: 9\ninterfaces: []\n")); err == nil {
		t.Fatalf("expected error")
	}
}
