package repository

import (
	"reflect"
	"testing"
)

func TestDecodeReasons(t *testing.T) {
	valid := `["Union reporting likely","30–300 employees sweet spot"]`
	broken := `{"not":"a list"`
	empty := ""
	null := "null"

	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty", &empty, []string{}},
		{"json null", &null, []string{}},
		{"malformed", &broken, []string{}},
		{"valid", &valid, []string{"Union reporting likely", "30–300 employees sweet spot"}},
	}

	for _, tc := range tests {
		if got := DecodeReasons(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestEncodeReasonsNilIsEmptyArray(t *testing.T) {
	got, err := encodeReasons(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}
