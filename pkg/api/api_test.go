package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/saruga/gulc/internal/diagnostic"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestCompileFreeFunctionProducesIR(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "identity.gul", `
func identity(val n: i32) -> i32 {
    return n;
}
`)

	mod, err := Compile([]string{path}, DefaultTarget(), nil)
	require.NoError(t, err)
	require.False(t, mod.HasErrors(), "unexpected diagnostics: %v", mod.Diagnostics)
	require.NotEmpty(t, mod.IR)
	require.True(t, strings.Contains(mod.IR, "identity"), "IR should declare identity: %s", mod.IR)
}

func TestCompileMultipleFilesShareNamespace(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.gul", `
struct Point {
    var x: i32;
    var y: i32;
}
`)
	b := writeSource(t, dir, "b.gul", `
func makeZero() -> i32 {
    return 0;
}
`)

	mod, err := Compile([]string{a, b}, DefaultTarget(), nil)
	require.NoError(t, err)
	require.False(t, mod.HasErrors(), "unexpected diagnostics: %v", mod.Diagnostics)
	require.True(t, strings.Contains(mod.IR, "makeZero"))
}

func TestCompileReportsParseErrorsWithoutEmittingIR(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.gul", `func broken( -> i32 { }`)

	mod, err := Compile([]string{path}, DefaultTarget(), nil)
	require.NoError(t, err)
	require.True(t, mod.HasErrors())
	require.Empty(t, mod.IR)
}

func TestCompileMissingFileIsAGoError(t *testing.T) {
	_, err := Compile([]string{"/nonexistent/does-not-exist.gul"}, DefaultTarget(), nil)
	require.Error(t, err)
}

func TestModuleHasErrors(t *testing.T) {
	mod := &Module{Diagnostics: []*diagnostic.Diagnostic{
		{Severity: diagnostic.Warning},
	}}
	require.False(t, mod.HasErrors())

	mod.Diagnostics = append(mod.Diagnostics, &diagnostic.Diagnostic{Severity: diagnostic.Error})
	require.True(t, mod.HasErrors())
}
