package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/propkit/internal/compiler/metadata"
)

func TestGenerateCommand(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})

	stdout, _, err := run(t, "generate", "--dir", dir, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 1 created, 0 updated, 0 unchanged, 0 removed")

	data, err := os.ReadFile(filepath.Join(dir, "shapes_propkit.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Code generated by propkit. DO NOT EDIT.")

	stdout, _, err = run(t, "generate", "--dir", dir, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 created, 0 updated, 1 unchanged")
}

func TestGenerateCommand_FromPackageDirectory(t *testing.T) {
	dir := newModule(t, map[string]string{"root.go": "package geom\n"})
	pkgDir := filepath.Join(dir, "shapes")
	require.NoError(t, os.Mkdir(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "shapes.go"), []byte(shapesSource), 0o644))

	// go generate runs the command in the package directory
	chdir(t, pkgDir)

	_, _, err := run(t, "generate", "--quiet", ".")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(pkgDir, "shapes_propkit.go"))
	assert.NoFileExists(t, filepath.Join(dir, "root_propkit.go"))
}

func TestGenerateCommand_FailureHints(t *testing.T) {
	dir := newModule(t, map[string]string{
		"shapes.go":         shapesSource,
		"shapes_propkit.go": "package geom\n",
	})

	_, _, err := run(t, "generate", "--dir", dir, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")
	assert.Contains(t, err.Error(), "propkit generate --interactive")

	_, _, err = run(t, "generate", "--dir", dir, "--quiet", "./missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATE FAILED")
	assert.NotContains(t, err.Error(), "--interactive")
}

func TestGenerateCommand_DryRun(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})

	stdout, _, err := run(t, "generate", "--dir", dir, "--quiet", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run: 1 file(s) would be generated")
	assert.NoFileExists(t, filepath.Join(dir, "shapes_propkit.go"))
}

func TestGenerateCommand_Diagnostics(t *testing.T) {
	dir := newModule(t, map[string]string{"label.go": duplicateSource})

	stdout, stderr, err := run(t, "generate", "--dir", dir, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, stdout, "[propkit.duplicate_member_id]")
	assert.Contains(t, stdout, "[propkit.duplicate_member_id_origin]")
	assert.Contains(t, stderr, "CHECK FAILED")

	// the first member wins, so the container is still emitted
	assert.FileExists(t, filepath.Join(dir, "label_propkit.go"))
}

func TestCheckCommand(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})

	stdout, _, err := run(t, "check", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No diagnostics in 1 file(s)")
	assert.NoFileExists(t, filepath.Join(dir, "shapes_propkit.go"))
}

func TestCheckCommand_JSON(t *testing.T) {
	dir := newModule(t, map[string]string{"label.go": duplicateSource})

	stdout, _, err := run(t, "check", "--dir", dir, "--json")
	require.Error(t, err)

	var diags []struct {
		Severity string `json:"severity"`
		Code     struct {
			ID string `json:"id"`
		} `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &diags))
	require.Len(t, diags, 2)
	assert.Equal(t, "error", diags[0].Severity)
	assert.Equal(t, "duplicate_member_id", diags[0].Code.ID)
	assert.Equal(t, "note", diags[1].Severity)
}

func TestCheckCommand_ErrorsOnly(t *testing.T) {
	dir := newModule(t, map[string]string{"label.go": duplicateSource})

	stdout, _, err := run(t, "check", "--dir", dir, "--errors-only")
	require.Error(t, err)
	assert.Contains(t, stdout, "[propkit.duplicate_member_id]")
	assert.NotContains(t, stdout, "duplicate_member_id_origin")
}

func TestInspectCommand_Text(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})

	stdout, _, err := run(t, "inspect", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "example.com/geom.Shape")
	assert.Contains(t, stdout, "Id:")
	assert.Contains(t, stdout, `"shape"`)
	assert.Contains(t, stdout, "Properties: 2")
	assert.Contains(t, stdout, "Width")
	assert.Contains(t, stdout, "Height")
}

func TestInspectCommand_Formats(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})

	stdout, _, err := run(t, "inspect", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	var fromJSON metadata.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &fromJSON))

	stdout, _, err = run(t, "inspect", "--dir", dir, "--format", "yaml")
	require.NoError(t, err)
	var fromYAML metadata.Report
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &fromYAML))

	for _, report := range []metadata.Report{fromJSON, fromYAML} {
		require.Len(t, report.Packages, 1)
		require.Len(t, report.Packages[0].Files, 1)
		file := report.Packages[0].Files[0]
		assert.Equal(t, "shapes.go", file.Path)
		require.Len(t, file.Containers, 1)
		assert.Equal(t, "shape", file.Containers[0].Key)
		require.Len(t, file.Containers[0].Properties, 2)
		assert.Equal(t, "w", file.Containers[0].Properties[0].Key)
		assert.Equal(t, "h", file.Containers[0].Properties[1].Key)
	}

	_, _, err = run(t, "inspect", "--dir", dir, "--format", "xml")
	assert.Error(t, err)
}

func TestInspectCommand_Container(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource, "label.go": duplicateSource})

	stdout, _, err := run(t, "inspect", "--dir", dir, "--container", "Label")
	require.NoError(t, err)
	assert.Contains(t, stdout, "example.com/geom.Label")
	assert.NotContains(t, stdout, "example.com/geom.Shape")

	_, _, err = run(t, "inspect", "--dir", dir, "--container", "Shap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTAINER NOT FOUND")
	assert.Contains(t, err.Error(), "Did you mean: Shape?")
}

func TestFilterContainer(t *testing.T) {
	report := &metadata.Report{
		Version: metadata.SchemaVersion,
		Packages: []metadata.PackageReport{{
			Path: "example.com/geom",
			Files: []metadata.FileReport{{
				Path:       "shapes.go",
				Containers: []metadata.ContainerMetadata{{Type: "Shape"}, {Type: "Point"}},
			}},
		}},
	}

	filtered, names := filterContainer(report, "Point")
	require.NotNil(t, filtered)
	assert.Equal(t, []string{"Shape", "Point"}, names)
	require.Len(t, filtered.Packages, 1)
	assert.Equal(t, "Point", filtered.Packages[0].Files[0].Containers[0].Type)

	// the source report is not modified
	assert.Len(t, report.Packages[0].Files[0].Containers, 2)

	filtered, _ = filterContainer(report, "Missing")
	assert.Nil(t, filtered)
}

func TestCleanCommand(t *testing.T) {
	dir := newModule(t, map[string]string{"shapes.go": shapesSource})
	_, _, err := run(t, "generate", "--dir", dir, "--quiet")
	require.NoError(t, err)

	stdout, _, err := run(t, "clean", "--dir", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "shapes_propkit.go")
	assert.Contains(t, stdout, "Would remove 1 generated file(s)")
	assert.FileExists(t, filepath.Join(dir, "shapes_propkit.go"))

	stdout, _, err = run(t, "clean", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 1 generated file(s)")
	assert.NoFileExists(t, filepath.Join(dir, "shapes_propkit.go"))
}

func TestWatchCommand_Flags(t *testing.T) {
	cmd := NewWatchCommand(&globalFlags{})

	assert.Equal(t, "watch", cmd.Use)
	flag := cmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "100ms", flag.DefValue)
}

func TestGeneratedPatterns(t *testing.T) {
	assert.Equal(t, []string{"*_propkit.go", "*_propkit_test.go"}, generatedPatterns("_propkit.go"))
}
