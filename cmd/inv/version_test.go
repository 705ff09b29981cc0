package main

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/version"
)

func overrideVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	orig, origC, origD := version.Version, version.Commit, version.Date
	t.Cleanup(func() {
		version.Version = orig
		version.Commit = origC
		version.Date = origD
	})
	version.Version = v
	version.Commit = commit
	version.Date = date
}

func TestVersionCmd_Output(t *testing.T) {
	overrideVersion(t, "test", "abc123", "2025-01-01")

	// version skips config loading, so a broken config must not matter.
	t.Setenv("INV_LOG_FORMAT", "xml")

	out, err := runCLI(t, &app{}, "version")
	if err != nil {
		t.Fatalf("version command returned error: %v", err)
	}
	for _, want := range []string{"test", "abc123", "2025-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q; got:\n%s", want, out)
		}
	}
}

func TestVersionInfo_Format(t *testing.T) {
	overrideVersion(t, "v1.2.3", "deadbeef", "2026-01-15")

	info := version.Info()

	if !strings.HasPrefix(info, "inv version v1.2.3\n") {
		t.Errorf("Info() first line wrong; got: %q", info)
	}
	if !strings.Contains(info, "commit: deadbeef") {
		t.Errorf("Info() missing commit line; got: %q", info)
	}
	if !strings.Contains(info, "built: 2026-01-15") {
		t.Errorf("Info() missing built line; got: %q", info)
	}
	if !strings.Contains(info, "go: go") {
		t.Errorf("Info() missing go line; got: %q", info)
	}
}

func TestVersionInfo_Defaults(t *testing.T) {
	overrideVersion(t, "dev", "none", "unknown")

	info := version.Info()

	for _, want := range []string{"dev", "none", "unknown"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() should contain default %q; got: %q", want, info)
		}
	}
}
