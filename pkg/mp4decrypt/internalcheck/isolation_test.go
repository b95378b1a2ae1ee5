package internalcheck

import (
	"fmt"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const module = "github.com/streamkit/mp4decrypt-go"

// confined lists the packages that may import "C" or "unsafe". Everything
// else stays pure Go so the library builds with CGO_ENABLED=0.
var confined = map[string]bool{
	module + "/internal/bindings": true,
	module + "/cmd/libmp4decrypt": true,
}

func TestCgoConfinedToBindings(t *testing.T) {
	findings := scanImports(t, "C")
	if len(findings) > 0 {
		t.Fatalf("cgo isolation violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestUnsafeConfinedToBindings(t *testing.T) {
	findings := scanImports(t, "unsafe")
	if len(findings) > 0 {
		t.Fatalf("unsafe confinement violation:\n%s", strings.Join(findings, "\n"))
	}
}

// scanImports reports every import of path in module packages outside the
// confined set. IgnoredFiles makes the scan cover files excluded by the
// current build configuration, so a stray cgo file cannot hide behind a tag.
func scanImports(t *testing.T, path string) []string {
	t.Helper()

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, module+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string
	fset := token.NewFileSet()
	for _, pkg := range pkgs {
		if confined[pkg.PkgPath] {
			continue
		}
		files := append(append([]string{}, pkg.GoFiles...), pkg.IgnoredFiles...)
		for _, file := range files {
			if !strings.HasSuffix(file, ".go") {
				continue
			}
			f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", file, err)
			}
			for _, imp := range f.Imports {
				p, err := strconv.Unquote(imp.Path.Value)
				if err != nil || p != path {
					continue
				}
				findings = append(findings,
					fmt.Sprintf("%s: import %q outside the bindings layer", fset.Position(imp.Pos()), path))
			}
		}
	}
	return findings
}
