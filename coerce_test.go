package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "true", want: true},
		{in: "TRUE ", want: true},
		{in: " True", want: true},
		{in: "1", want: false},
		{in: "yes", want: false},
		{in: "false", want: false},
		{in: "", want: false},
		{in: "truthy", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBool(tt.in), "ParseBool(%q)", tt.in)
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   int
		wantOK bool
	}{
		{name: "Plain", in: "2021", want: 2021, wantOK: true},
		{name: "Surrounding space", in: " 2020 ", want: 2020, wantOK: true},
		{name: "Trailing garbage", in: "2021a", want: 2021, wantOK: true},
		{name: "Trailing annotation", in: "2019 (rev.)", want: 2019, wantOK: true},
		{name: "Negative", in: "-12", want: -12, wantOK: true},
		{name: "Explicit plus", in: "+7", want: 7, wantOK: true},
		{name: "Empty", in: "", wantOK: false},
		{name: "Sign only", in: "-", wantOK: false},
		{name: "Leading letters", in: "a2021", wantOK: false},
		{name: "Overflow", in: "99999999999999999999999", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
