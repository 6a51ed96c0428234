package version

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func setBuildInfo(t *testing.T, version, commit, built string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = version, commit, built
}

func TestString(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		setBuildInfo(t, "dev", "unknown", "unknown")

		if got, want := String(), "wsprobe dev (unknown) built unknown"; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		setBuildInfo(t, "1.2.3", "abc1234", "2024-01-15T10:30:00Z")

		if got, want := String(), "wsprobe 1.2.3 (abc1234) built 2024-01-15T10:30:00Z"; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})
}

func TestLogAttr(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc1234", "2024-01-15T10:30:00Z")

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("starting", LogAttr())

	var rec struct {
		Build map[string]string `json:"build"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{"version": "1.2.3", "commit": "abc1234", "built": "2024-01-15T10:30:00Z"}
	for k, v := range want {
		if rec.Build[k] != v {
			t.Errorf("build.%s = %q, want %q", k, rec.Build[k], v)
		}
	}
}
