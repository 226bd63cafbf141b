package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapjs/internal/cli/commands"
	"github.com/leapstack-labs/leapjs/internal/cli/config"
	"github.com/leapstack-labs/leapjs/internal/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"leapjs.yaml": "devtool: none\nmanifest:\n  base_path: /app\n",
		"leapjs.graph.yaml": `chunks:
  - id: main
    modules:
      - src/index.js
      - src/logo.svg
`,
		"src/index.js": "var logo = require('./logo.svg');\nconsole.log(logo);\n",
		"src/logo.svg": "<svg/>",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "build", "--project-dir", dir, "--json")
	require.NoError(t, err)

	var stats compiler.StatsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &stats))

	require.Len(t, stats.Chunks, 1)
	assert.Equal(t, []string{"./src/index.js", "./src/logo.svg"}, stats.Chunks[0].Modules)

	chunk, err := os.ReadFile(filepath.Join(dir, "dist", stats.Chunks[0].Hashname))
	require.NoError(t, err)
	code := string(chunk)
	assert.True(t, strings.HasPrefix(code, `globalThis.jsonpCallback([["main"], {`))
	assert.Contains(t, code, `"./src/logo.svg": function(module, exports, require) {`)
	assert.Contains(t, code, "data:image/svg+xml;base64,PHN2Zy8+")

	manifest, err := os.ReadFile(filepath.Join(dir, "dist", "asset-manifest.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"/app/main.js": "`+stats.Chunks[0].Hashname+`"`)
}

// runScript loads the runtime and chunk files into one node context, then
// requires entry.
const runScript = `
const fs = require('fs');
const vm = require('vm');
const [runtimeFile, entry, ...chunkFiles] = process.argv.slice(1);
vm.runInThisContext(fs.readFileSync(runtimeFile, 'utf8'));
for (const f of chunkFiles) {
  vm.runInThisContext(fs.readFileSync(f, 'utf8'));
}
for (const id of Object.keys(requireModule.chunkFiles)) {
  console.log('chunk ' + id + ' -> ' + requireModule.chunkPath(id));
}
requireModule(entry);
`

func TestBuild_ScaffoldedProjectRuns(t *testing.T) {
	node, err := exec.LookPath("node")
	if err != nil {
		t.Skip("node not installed")
	}

	dir := filepath.Join(t.TempDir(), "app")
	initCmd := commands.NewInitCommand()
	initCmd.SetOut(new(bytes.Buffer))
	initCmd.SetErr(new(bytes.Buffer))
	initCmd.SetArgs([]string{dir})
	require.NoError(t, initCmd.Execute())

	out, err := execute(t, "build", "--project-dir", dir, "--json")
	require.NoError(t, err)

	var stats compiler.StatsJSON
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats.Chunks, 1)

	var runtimePath string
	for _, a := range stats.Assets {
		if a.Kind == compiler.AssetRuntime {
			runtimePath = a.Path
		}
	}
	require.NotEmpty(t, runtimePath)

	chunkPath := filepath.Join(dir, "dist", stats.Chunks[0].Hashname)
	cmd := exec.CommandContext(t.Context(), node, "-e", runScript, "--", runtimePath, "./src/index.js", chunkPath)
	result, err := cmd.CombinedOutput()
	require.NoError(t, err, string(result))

	assert.Equal(t, "chunk main -> "+stats.Chunks[0].Hashname+"\nHello, world!\n", string(result))
}

func TestBuild_Table(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "build", "--project-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "runtime.js")
	assert.Contains(t, out, "Built 1 chunks into "+filepath.Join(dir, "dist"))
}

func TestBuild_MissingGraph(t *testing.T) {
	_, err := execute(t, "build", "--project-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read graph")
}

func TestBuild_InvalidConfig(t *testing.T) {
	dir := setupProject(t)

	_, err := execute(t, "build", "--project-dir", dir, "--mode", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid value "staging" for mode`)
}

func TestRuntimeCommand(t *testing.T) {
	out, err := execute(t, "runtime", "--project-dir", t.TempDir(), "--umd", "MyLib", "--public-path", "/static/")
	require.NoError(t, err)

	assert.Contains(t, out, `requireModule.publicPath = "/static/";`)
	assert.Contains(t, out, "root['MyLib']")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestVersionCommand_BuildInfo(t *testing.T) {
	out, err := execute(t, "version", "--project-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "leapjs v"+Version)
	assert.Contains(t, out, "commit: "+GitCommit)
	assert.Contains(t, out, "built:  "+BuildDate)
}
