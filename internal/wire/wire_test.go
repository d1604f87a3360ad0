package wire

import (
	"reflect"
	"testing"
)

func TestHelloRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   *Hello
	}{
		{
			name: "with neighbors",
			in:   NewHello("r1", "10.0.0.1", []string{"r2", "r3"}, 123.456),
		},
		{
			name: "no neighbors yet",
			in:   NewHello("r1", "10.0.0.1", []string{}, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			got, ok := decoded.(*Hello)
			if !ok {
				t.Fatalf("Decode returned %T, want *Hello", decoded)
			}
			if !reflect.DeepEqual(got, tt.in) {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.in)
			}
		})
	}
}

func TestLSARoundTrip(t *testing.T) {
	in := NewLSA("r1", 5, []string{"10.0.0.1", "192.168.7.0/24"}, map[string]int{"r2": 1, "r3": 5}, 123.456)

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, ok := decoded.(*LSA)
	if !ok {
		t.Fatalf("Decode returned %T, want *LSA", decoded)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, in)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"GOODBYE"}`))
	if err == nil {
		t.Fatal("expected an error for an unknown packet type")
	}
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	data := []byte(`{"type":"HELLO","router_id":"r1","timestamp":1,"ip_address":"10.0.0.1","known_neighbors":["r2"],"future_field":"ignored"}`)

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	h, ok := decoded.(*Hello)
	if !ok {
		t.Fatalf("Decode returned %T, want *Hello", decoded)
	}
	if h.RouterID != "r1" {
		t.Errorf("RouterID = %q, want r1", h.RouterID)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
