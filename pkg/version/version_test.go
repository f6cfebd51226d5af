package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func release() Info {
	return Info{
		Version:   "0.4.2",
		GitCommit: "9f1c2e7",
		BuildTime: "2026-03-01T12:00:00Z",
		GoVersion: "go1.25.1",
	}
}

func TestGetReflectsLinkerVariables(t *testing.T) {
	saved := [3]string{Version, GitCommit, BuildTime}
	t.Cleanup(func() { Version, GitCommit, BuildTime = saved[0], saved[1], saved[2] })

	Version, GitCommit, BuildTime = "0.4.2", "9f1c2e7", "yesterday"
	info := Get()

	assert.Equal(t, "0.4.2", info.Version)
	assert.Equal(t, "9f1c2e7", info.GitCommit)
	assert.Equal(t, "yesterday", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestInfo_String(t *testing.T) {
	assert.Equal(t,
		"Version: 0.4.2, GitCommit: 9f1c2e7, BuildTime: 2026-03-01T12:00:00Z, GoVersion: go1.25.1",
		release().String())
}

func TestInfo_Encodings(t *testing.T) {
	info := release()

	tests := []struct {
		name   string
		encode func() (string, error)
		want   string
	}{
		{
			name:   "indented",
			encode: info.JSON,
			want:   "{\n  \"version\": \"0.4.2\",\n  \"gitCommit\": \"9f1c2e7\",\n  \"buildTime\": \"2026-03-01T12:00:00Z\",\n  \"goVersion\": \"go1.25.1\"\n}",
		},
		{
			name:   "build info",
			encode: func() (string, error) { return info.BuildInfo(), nil },
			want:   `{"version":"0.4.2","gitCommit":"9f1c2e7","buildTime":"2026-03-01T12:00:00Z","goVersion":"go1.25.1"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var decoded Info
			require.NoError(t, json.Unmarshal([]byte(got), &decoded))
			assert.Equal(t, info, decoded)
		})
	}
}
