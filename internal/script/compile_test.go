package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModule(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestCompileEmpty(t *testing.T) {
	got, err := Compile(Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got != "" {
		t.Fatalf("output = %q, want empty", got)
	}
}

func TestCompileMissingTreesKeepSeed(t *testing.T) {
	got, err := Compile(Options{
		SourceDir: filepath.Join(t.TempDir(), "nope"),
		LibDir:    filepath.Join(t.TempDir(), "nada"),
		Seed:      "-- legacy",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got != "-- legacy\n" {
		t.Fatalf("output = %q, want seed with trailing newline", got)
	}
}

func TestCompileModules(t *testing.T) {
	src := t.TempDir()
	writeModule(t, src, "main.lua", `print("main")`)
	writeModule(t, src, "util/helpers.lua", `return {}`)

	got, err := Compile(Options{SourceDir: src})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for _, want := range []string{
		`__modules["main"] = function(...)`,
		`__modules["util.helpers"] = function(...)`,
		`require("main")`,
		"local __modules = {}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if !strings.HasSuffix(got, "require(\"main\")\n") {
		t.Errorf("main is not required last:\n%s", got)
	}
}

func TestCompileLibraryBeforeSource(t *testing.T) {
	lib := t.TempDir()
	src := t.TempDir()
	writeModule(t, lib, "stdlib.lua", `return {}`)
	writeModule(t, src, "main.lua", `require("stdlib")`)

	got, err := Compile(Options{SourceDir: src, LibDir: lib})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	libAt := strings.Index(got, `__modules["stdlib"]`)
	srcAt := strings.Index(got, `__modules["main"]`)
	if libAt < 0 || srcAt < 0 {
		t.Fatalf("missing module chunks:\n%s", got)
	}
	if libAt > srcAt {
		t.Fatal("library module registered after source module")
	}
}

func TestCompileNoMainNoRequire(t *testing.T) {
	src := t.TempDir()
	writeModule(t, src, "helpers.lua", `return {}`)

	got, err := Compile(Options{SourceDir: src})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Contains(got, `require("main")`) {
		t.Fatal("main required without a main module")
	}
}

func TestCompileSeedComesFirst(t *testing.T) {
	src := t.TempDir()
	writeModule(t, src, "main.lua", `print("main")`)

	got, err := Compile(Options{SourceDir: src, Seed: "-- legacy\n"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	seedAt := strings.Index(got, "-- legacy")
	moduleAt := strings.Index(got, `__modules["main"]`)
	if seedAt != 0 {
		t.Fatalf("seed at index %d, want 0", seedAt)
	}
	if moduleAt < seedAt {
		t.Fatal("module chunk emitted before seed")
	}
}

func TestCompileIgnoresNonLuaFiles(t *testing.T) {
	src := t.TempDir()
	writeModule(t, src, "main.lua", `print("main")`)
	writeModule(t, src, "notes.txt", "not a module")

	got, err := Compile(Options{SourceDir: src})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Contains(got, "not a module") {
		t.Fatal("non-lua file leaked into the bundle")
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want string
	}{
		{
			name: "top level",
			rel:  "main.lua",
			want: "main",
		},
		{
			name: "nested",
			rel:  filepath.Join("util", "strings.lua"),
			want: "util.strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moduleName(tt.rel); got != tt.want {
				t.Fatalf("moduleName = %q, want %q", got, tt.want)
			}
		})
	}
}
