package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vptvpt/riscv-assembler/assembler"
	"github.com/vptvpt/riscv-assembler/config"
)

func TestLoadMissingFile(t *testing.T) {
	conf, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.LineFailurePolicy != "drop" || conf.HexExtension != ".hex" || conf.SourceExtension != ".s" {
		t.Errorf("Unexpected defaults %+v", conf)
	}
	if conf.AssemblerConfig().LineFailurePolicy != assembler.DropFailedLines {
		t.Errorf("Expected drop policy")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rvasm.json")
	os.WriteFile(path, []byte(`{"lineFailurePolicy": "strict", "debug": true, "listenAddr": ":9000"}`), 0o644)

	conf, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if conf.AssemblerConfig().LineFailurePolicy != assembler.StrictLines {
		t.Errorf("Expected strict policy, got %q", conf.LineFailurePolicy)
	}
	if !conf.Debug || conf.ListenAddr != ":9000" || conf.HexExtension != ".hex" {
		t.Errorf("Unexpected config %+v", conf)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax.json": `{"lineFailurePolicy": `,
		"policy.json": `{"lineFailurePolicy": "ignore"}`,
		"ext.json":    `{"hexExtension": ""}`,
	}
	for name, contents := range cases {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(contents), 0o644)
		if _, err := config.Load(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
