package api

import (
	"reflect"
	"testing"
)

func TestParseOwned(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[int]int64
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single pair", raw: "19700:250", want: map[int]int64{19700: 250}},
		{
			name: "multiple pairs with spaces",
			raw:  "19700:250, 19684:3",
			want: map[int]int64{19700: 250, 19684: 3},
		},
		{
			name: "duplicate ids accumulate",
			raw:  "19700:10,19700:5",
			want: map[int]int64{19700: 15},
		},
		{name: "missing quantity", raw: "19700", wantErr: true},
		{name: "bad id", raw: "abc:5", wantErr: true},
		{name: "negative quantity", raw: "19700:-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOwned(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOwned(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOwned(%q) error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOwned(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
