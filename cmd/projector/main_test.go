package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/config"
	"projector/internal/driver"
	"projector/internal/modelio"
)

var geometryScope = []string{"-n", "Acme.Geometry", "-u", "System", "-u", "System.Collections.Generic"}

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "projector ")
	assert.Contains(t, out, "snapshot schema: 1")

	out, _, err = run(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "projector"`)

	_, _, err = run(t, "version", "--format", "yaml")
	require.Error(t, err)
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"decl", "types", "check", "sample", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestDeclType(t *testing.T) {
	out, errOut, err := run(t, append(geometryScope, "decl", "Acme.Geometry.Edges")...)
	require.NoError(t, err, errOut)
	assert.True(t, strings.HasPrefix(out, "[Flags]\npublic enum Edges : byte\n{\n    None = 0,\n"), out)
	assert.Empty(t, errOut)
}

func TestDeclMembersAndTabs(t *testing.T) {
	out, _, err := run(t, append(geometryScope, "decl", "Acme.Geometry.Circle.Diameter", "Acme.Geometry.Units")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "public double Diameter { get; set; }\n\npublic enum Units\n"), out)

	out, _, err = run(t, append(geometryScope, "decl", "--tabs", "Acme.Geometry.Units")...)
	require.NoError(t, err)
	assert.Contains(t, out, "\n\tPixels = 0,\n")
}

func TestDeclUnknownName(t *testing.T) {
	_, errOut, err := run(t, append(geometryScope, "decl", "Acme.Geometry.Nope")...)
	require.ErrorIs(t, err, driver.ErrUnknownSubject)
	assert.Contains(t, errOut, "CFG6004")

	_, errOut, err = run(t, append(geometryScope, "--diagnostics", "json", "decl", "Acme.Geometry.Nope")...)
	require.Error(t, err)
	assert.Contains(t, errOut, `"code": "CFG6004"`)
}

func TestTypesCommand(t *testing.T) {
	out, _, err := run(t, "types", "Acme.Geometry")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Acme.Geometry.Circle", lines[0])
	assert.Equal(t, "Acme.Geometry.Units", lines[8])

	out, _, err = run(t, append(geometryScope, "types", "--declare", "-j", "3", "Acme.Geometry")...)
	require.NoError(t, err)
	assert.Contains(t, out, "public enum Edges : byte\n")
	assert.Contains(t, out, "public static class ShapeExtensions\n")
	assert.Contains(t, out, "}\n\npublic struct Point<T> where T : struct\n")
}

func TestCheckCommand(t *testing.T) {
	out, errOut, err := run(t, append(geometryScope, "check", "Acme")...)
	require.NoError(t, err, errOut)
	assert.Equal(t, "9 types checked\n", out)
}

func TestSampleSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.mp")
	out, _, err := run(t, "sample", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	m, err := modelio.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, m.NamespaceExists("Acme.Geometry"))

	want, _, err := run(t, append(geometryScope, "decl", "Acme.Geometry.Circle")...)
	require.NoError(t, err)
	got, _, err := run(t, append(geometryScope, "--snapshot", path, "decl", "Acme.Geometry.Circle")...)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, _, err = run(t, "--snapshot", filepath.Join(t.TempDir(), "missing.mp"), "types")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[options]
show_attributes = false

[scope]
namespace = "Acme.Geometry"
usings = ["System"]
`), 0o600))

	out, _, err := run(t, "--config", path, "decl", "Acme.Geometry.Circle")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "public sealed class Circle : Shape\n"), out)
	assert.NotContains(t, out, "[Obsolete")

	require.NoError(t, os.WriteFile(path, []byte("[options]\nno_such_option = true\n"), 0o600))
	_, _, err = run(t, "--config", path, "types")
	require.ErrorIs(t, err, config.ErrUnknownOption)
}

func TestTraceOutput(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "trace.log")
	_, _, err := run(t, append(geometryScope, "--trace-level", "detail", "--trace", tracePath, "decl", "Acme.Geometry.Circle")...)
	require.NoError(t, err)
	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "declare type")
	assert.Contains(t, string(data), "type=Acme.Geometry.Circle")

	_, _, err = run(t, "--trace-level", "loud", "types")
	require.Error(t, err)
}

func TestInvalidColorMode(t *testing.T) {
	_, _, err := run(t, "--color", "purple", "types")
	require.ErrorIs(t, err, errBadColorMode)
}

func TestTimingsAndProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	_, errOut, err := run(t, append(geometryScope, "--timings", "--cpu-profile", cpu, "types", "--declare", "Acme")...)
	require.NoError(t, err)
	for _, phase := range []string{"config", "snapshot", "session", "project", "total"} {
		assert.Contains(t, errOut, phase)
	}
	assert.FileExists(t, cpu)
}
