// Package script assembles the Lua sources of a project into a single
// executable map script.
package script

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader emitted ahead of the module chunks. Map scripts run in an
// environment without a module system, so the bundle carries its own.
const preamble = `local __modules = {}
local __loaded = {}
local function require(name)
    if __loaded[name] == nil then
        local chunk = __modules[name]
        if chunk == nil then
            error("module '" .. name .. "' not found")
        end
        __loaded[name] = chunk() or true
    end
    return __loaded[name]
end
`

// Name of the module that boots the compiled script.
const mainModule = "main"

// Controls a compile.
type Options struct {
	SourceDir string // Project source tree, provides the main module.
	LibDir    string // Shared library tree, registered before the source tree.
	Seed      string // Previously embedded map script, emitted first. May be empty.
}

// A single Lua module collected from a source tree.
type module struct {
	name string
	body string
}

// Bundles the library and source trees plus the seed script into one
// executable script.
//
// Modules are named by their path relative to the tree root, with the
// extension stripped and slashes replaced by dots. The library tree is
// registered first, then the source tree; a source module shadows a
// library module of the same name. Missing trees contribute nothing.
// The output runs the seed script, registers all modules, and requires
// the main module when one exists.
func Compile(opts Options) (string, error) {
	var modules []module
	for _, dir := range []string{opts.LibDir, opts.SourceDir} {
		collected, err := collectModules(dir)
		if err != nil {
			return "", err
		}
		modules = append(modules, collected...)
	}

	var b strings.Builder

	if opts.Seed != "" {
		b.WriteString(opts.Seed)
		if !strings.HasSuffix(opts.Seed, "\n") {
			b.WriteByte('\n')
		}
	}

	if len(modules) == 0 {
		return b.String(), nil
	}

	b.WriteString(preamble)

	hasMain := false
	for _, m := range modules {
		if m.name == mainModule {
			hasMain = true
		}
		fmt.Fprintf(&b, "__modules[%q] = function(...)\n%s\nend\n", m.name, m.body)
	}

	if hasMain {
		fmt.Fprintf(&b, "require(%q)\n", mainModule)
	}

	return b.String(), nil
}

// Gathers every .lua file under dir in lexical order. A missing directory
// is not an error; the tree simply contributes no modules.
func collectModules(dir string) ([]module, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	var modules []module
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".lua") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read module %s: %w", rel, err)
		}

		modules = append(modules, module{
			name: moduleName(rel),
			body: strings.TrimRight(string(body), "\n"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect modules from %s: %w", dir, err)
	}
	return modules, nil
}

// Derives a module name from a tree-relative file path.
func moduleName(rel string) string {
	name := filepath.ToSlash(rel)
	name = strings.TrimSuffix(name, ".lua")
	return strings.ReplaceAll(name, "/", ".")
}
