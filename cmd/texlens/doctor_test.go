package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/texlens/texlens"
)

func TestRunDoctor_ToolsFoundOnPath(t *testing.T) {
	t.Parallel()

	cfg, err := texlens.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	cfg.TexEngine = "sh"
	cfg.DvisvgmPath = "sh"

	result := runDoctor(cfg)
	if !result.TexTool.Found || !result.SvgTool.Found {
		t.Errorf("result = %+v, want both tools found (sh is always on PATH)", result)
	}
}

func TestRunDoctor_MissingToolIsError(t *testing.T) {
	t.Parallel()

	cfg, err := texlens.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	cfg.TexEngine = "texlens-definitely-not-a-real-binary"
	cfg.DvisvgmPath = "sh"

	result := runDoctor(cfg)
	if result.TexTool.Found {
		t.Error("TexTool.Found = true, want false for a nonexistent binary")
	}
	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	if len(result.Errors) == 0 {
		t.Error("Errors is empty, want at least one entry for the missing tool")
	}
}

func TestRunDoctor_JSONOutputIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := texlens.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	cfg.TexEngine = "sh"
	cfg.DvisvgmPath = "sh"

	result := runDoctor(cfg)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(result); err != nil {
		t.Fatalf("encoding doctorResult: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding doctorResult JSON: %v", err)
	}
	if _, ok := decoded["status"]; !ok {
		t.Error("decoded JSON missing status field")
	}
}

func TestRunDoctor_SynctexAvailabilityMatchesBuild(t *testing.T) {
	t.Parallel()

	cfg, err := texlens.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	cfg.TexEngine = "sh"
	cfg.DvisvgmPath = "sh"

	result := runDoctor(cfg)

	wantErrors := !result.Synctex.CgoEnabled
	gotErrors := false
	for _, e := range result.Errors {
		if e == "built without cgo: synctex bindings unavailable, every filter invocation will fail at the locator stage" {
			gotErrors = true
		}
	}
	if gotErrors != wantErrors {
		t.Errorf("cgo-disabled error present = %v, want %v (CgoEnabled = %v)", gotErrors, wantErrors, result.Synctex.CgoEnabled)
	}
}
