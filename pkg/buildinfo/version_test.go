package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			"defaults",
			Info{Version: "dev", Commit: "none", Date: "unknown"},
			Info{Version: "v0.3.1", Commit: "0123456789abcdef", Date: "2026-01-02T03:04:05Z", Dirty: true},
		},
		{
			"stamped",
			Info{Version: "v1.0.0", Commit: "feedbee", Date: "today"},
			Info{Version: "v1.0.0", Commit: "feedbee", Date: "today", Dirty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.in, bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFillDevelVersion(t *testing.T) {
	got := fill(Info{Version: "dev", Commit: "none", Date: "unknown"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "dev" || got.Commit != "none" {
		t.Errorf("fill() = %+v", got)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.0.0", Commit: "0123456789abcdef"}, "v1.0.0 (0123456)"},
		{Info{Version: "dev", Commit: "none"}, "dev (none)"},
		{Info{Version: "v1.0.0", Commit: "abc", Dirty: true}, "v1.0.0 (abc+dirty)"},
	}

	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}
