package buildinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		version   string
		buildDate string
		want      Info
	}{
		{"blank", "", "", Info{Version: UnknownValue, BuildDate: UnknownValue}},
		{"release", "v1.0.0", "2025-01-01", Info{Version: "v1.0.0", BuildDate: "2025-01-01"}},
		{"pre-release", "v1.1.0-rc.1", "", Info{Version: "v1.1.0-rc.1", BuildDate: UnknownValue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := New(tt.version, tt.buildDate)
			tt.want.GoVersion = runtime.Version()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_String(t *testing.T) {
	t.Parallel()
	s := New("v2.0.0", "2025-06-01").String()
	assert.Contains(t, s, "calendar-go v2.0.0")
	assert.Contains(t, s, "built 2025-06-01")
}

func TestCurrent_NeverBlank(t *testing.T) {
	t.Parallel()
	info := Current()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.BuildDate)
}
