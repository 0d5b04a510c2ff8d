package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"release/pkg.wasm":             "module",
		"release/empty.wasm":           "",
		"release/deps/pkg-1a2b.wasm":   "duplicate",
		"release/build/out/other.wasm": "intermediate",
		"top.wasm":                     "top",
		"notes.txt":                    "text",
	})

	found, err := findFiles(root, true, hasExt(".wasm"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "release", "pkg.wasm"),
		filepath.Join(root, "top.wasm"),
	}, found)

	shallow, err := findFiles(root, false, hasExt(".WASM"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "top.wasm")}, shallow)

	missing, err := findFiles(filepath.Join(root, "nope"), true, hasExt(".wasm"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSelectArtifact(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		_, err := selectArtifact("bytecode", nil, "Token")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("single candidate wins regardless of stem", func(t *testing.T) {
		got, err := selectArtifact("bytecode", []string{"/out/Other.bin"}, "Token")
		require.NoError(t, err)
		assert.Equal(t, "/out/Other.bin", got)
	})

	t.Run("stem match is case insensitive", func(t *testing.T) {
		got, err := selectArtifact("bytecode", []string{"/out/Helper.bin", "/out/Token.bin"}, "token")
		require.NoError(t, err)
		assert.Equal(t, "/out/Token.bin", got)
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := selectArtifact("bytecode", []string{"/out/A.bin", "/out/B.bin"}, "Token")
		assert.ErrorIs(t, err, domain.ErrAmbiguousArtifact)
		assert.ErrorContains(t, err, "A.bin, B.bin")
	})
}

func TestFindSchema(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		wantErr error
	}{
		{name: "exact rpd", files: []string{"pkg.rpd", "other.rpd"}, want: "pkg.rpd"},
		{name: "exact schema", files: []string{"pkg.schema"}, want: "pkg.schema"},
		{name: "rpd preferred over json", files: []string{"pkg.json", "pkg.rpd"}, want: "pkg.rpd"},
		{name: "single fallback", files: []string{"definition.rpd"}, want: "definition.rpd"},
		{name: "json fallback needs schema in the name", files: []string{"manifest.json"}, want: ""},
		{name: "ambiguous fallback", files: []string{"a.rpd", "b.schema"}, wantErr: domain.ErrAmbiguousArtifact},
		{name: "none", files: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files := map[string]string{"pkg.wasm": "module"}
			for _, f := range tt.files {
				files[f] = "schema"
			}
			writeFiles(t, dir, files)

			got, err := findSchema(filepath.Join(dir, "pkg.wasm"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, filepath.Join(dir, tt.want), got)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"project/Anchor.toml":             "",
		"project/target/deep/Anchor.toml": "",
		"project/sub/Cargo.toml":          "",
		".hidden/Anchor.toml":             "",
	})

	got, err := findProjectRoot(root, "Anchor.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "project"), got)

	got, err = findProjectRoot(root, "Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "project", "sub"), got)

	_, err = findProjectRoot(root, "Scrypto.toml")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestReadArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"m.so": "ELF", "m.json": "{}", "empty.so": ""})

	module, schema, err := readArtifacts(filepath.Join(dir, "m.so"), filepath.Join(dir, "m.json"))
	require.NoError(t, err)
	assert.Equal(t, "ELF", string(module))
	assert.Equal(t, "{}", string(schema))

	module, schema, err = readArtifacts(filepath.Join(dir, "m.so"), "")
	require.NoError(t, err)
	assert.NotNil(t, module)
	assert.Nil(t, schema)

	_, _, err = readArtifacts(filepath.Join(dir, "empty.so"), "")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
