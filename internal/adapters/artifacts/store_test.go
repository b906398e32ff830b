package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-support/internal/domain"
)

const (
	emptyABI       = `[]`
	constructorABI = `[{"type":"constructor","inputs":[{"name":"owner","type":"address","internalType":"address"}],"stateMutability":"nonpayable"}]`
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// foundryArtifact mimics out/<Source>.sol/<Name>.json
func foundryArtifact(name, source, abi, bytecode string) string {
	return `{
  "abi": ` + abi + `,
  "bytecode": {"object": "` + bytecode + `", "linkReferences": {}},
  "deployedBytecode": {"object": "0x00"},
  "metadata": {"settings": {"compilationTarget": {"src/` + source + `": "` + name + `"}}}
}`
}

// hardhatArtifact mimics artifacts/contracts/<Source>.sol/<Name>.json
func hardhatArtifact(name, source, abi, bytecode string) string {
	return `{
  "_format": "hh-sol-artifact-1",
  "contractName": "` + name + `",
  "sourceName": "contracts/` + source + `",
  "abi": ` + abi + `,
  "bytecode": "` + bytecode + `",
  "deployedBytecode": "0x00",
  "linkReferences": {}
}`
}

func TestStoreFoundryLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Multicall2.sol", "Multicall2.json"), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6080604052"))
	writeFile(t, filepath.Join(dir, "BalanceChecker.sol", "BalanceChecker.json"), foundryArtifact("BalanceChecker", "BalanceChecker.sol", emptyABI, "0x60606040"))
	writeFile(t, filepath.Join(dir, "build-info", "abc.json"), `{"id":"abc"}`)

	store := NewStore(dir, nil)
	ctx := context.Background()

	artifact, err := store.Get(ctx, "Multicall2")
	require.NoError(t, err)
	assert.Equal(t, "Multicall2", artifact.Name)
	assert.Equal(t, "Multicall2.sol", artifact.Source)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, artifact.Bytecode)
	assert.JSONEq(t, emptyABI, string(artifact.ABI))

	byFQN, err := store.Get(ctx, "BalanceChecker.sol:BalanceChecker")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x60, 0x60, 0x40}, byFQN.Bytecode)

	assert.Equal(t, []string{"BalanceChecker", "Multicall2"}, store.Names())
}

func TestStoreHardhatLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "contracts", "Multicall2.sol", "Multicall2.json"), hardhatArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6080"))
	writeFile(t, filepath.Join(dir, "contracts", "Multicall2.sol", "Multicall2.dbg.json"), `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/x.json"}`)

	store := NewStore(dir, nil)

	artifact, err := store.Get(context.Background(), "Multicall2")
	require.NoError(t, err)
	assert.Equal(t, "Multicall2.sol", artifact.Source)
	assert.Equal(t, []byte{0x60, 0x80}, artifact.Bytecode)
	assert.Equal(t, []string{"Multicall2"}, store.Names())
}

func TestStoreNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Multicall2.sol", "Multicall2.json"), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6080"))

	store := NewStore(dir, nil)

	_, err := store.Get(context.Background(), "Multicall")
	require.Error(t, err)

	var notFound *domain.ArtifactNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Multicall", notFound.Name)
	assert.Equal(t, []string{"Multicall2"}, notFound.Suggestions)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean Multicall2?")
}

func TestStoreMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "out"), nil)

	_, err := store.Get(context.Background(), "Multicall2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Names())
}

func TestStoreAmbiguousName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Multicall2.sol", "Multicall2.json"), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6080"))
	writeFile(t, filepath.Join(dir, "Legacy.sol", "Multicall2.json"), foundryArtifact("Multicall2", "Legacy.sol", emptyABI, "0x6060"))

	store := NewStore(dir, nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "Multicall2")
	var ambiguous *domain.AmbiguousArtifactError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Matches, 2)

	artifact, err := store.Get(ctx, "Legacy.sol:Multicall2")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x60}, artifact.Bytecode)
}

func TestStoreMultipleCompilerVersions(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string // file name under Multicall2.sol/ -> bytecode
		want  []byte
	}{
		{
			name: "newest version wins",
			files: map[string]string{
				"Multicall2.0.8.10.json": "0x6010",
				"Multicall2.0.8.20.json": "0x6020",
				"Multicall2.0.8.9.json":  "0x6009",
			},
			want: []byte{0x60, 0x20},
		},
		{
			name: "unversioned build wins",
			files: map[string]string{
				"Multicall2.json":        "0x6000",
				"Multicall2.0.8.20.json": "0x6020",
			},
			want: []byte{0x60, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for file, code := range tt.files {
				writeFile(t, filepath.Join(dir, "Multicall2.sol", file), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, code))
			}

			store := NewStore(dir, nil)
			ctx := context.Background()

			artifact, err := store.Get(ctx, "Multicall2")
			require.NoError(t, err)
			assert.Equal(t, tt.want, artifact.Bytecode)

			byFQN, err := store.Get(ctx, "Multicall2.sol:Multicall2")
			require.NoError(t, err)
			assert.Equal(t, artifact.Path, byFQN.Path)
		})
	}
}

func TestStoreSameVersionTwiceIsAmbiguous(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Multicall2.sol", "Multicall2.0.8.20.json"), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6020"))
	writeFile(t, filepath.Join(dir, "legacy", "Multicall2.sol", "Multicall2.0.8.20.json"), foundryArtifact("Multicall2", "Multicall2.sol", emptyABI, "0x6021"))

	_, err := NewStore(dir, nil).Get(context.Background(), "Multicall2")
	var ambiguous *domain.AmbiguousArtifactError
	require.ErrorAs(t, err, &ambiguous)
	assert.Contains(t, err.Error(), "--multicall")
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 1, compareVersions([]int{0, 8, 20}, []int{0, 8, 9}))
	assert.Equal(t, -1, compareVersions([]int{0, 8}, []int{0, 8, 1}))
	assert.Equal(t, 0, compareVersions([]int{0, 8, 0}, []int{0, 8}))

	_, ok := compilerVersion("Multicall2.json", "Multicall2")
	assert.False(t, ok)
	version, ok := compilerVersion("Multicall2.0.8.20", "Multicall2")
	require.True(t, ok)
	assert.Equal(t, []int{0, 8, 20}, version)
}

func TestStoreUndeployableArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Linked.sol", "Linked.json"),
		foundryArtifact("Linked", "Linked.sol", emptyABI, "0x6080__$8f1c0b2a$__6040"))
	writeFile(t, filepath.Join(dir, "Owned.sol", "Owned.json"),
		foundryArtifact("Owned", "Owned.sol", constructorABI, "0x6080"))
	writeFile(t, filepath.Join(dir, "IFace.sol", "IFace.json"),
		foundryArtifact("IFace", "IFace.sol", emptyABI, "0x"))

	store := NewStore(dir, nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "Linked")
	assert.ErrorIs(t, err, domain.ErrUnlinkedBytecode)

	_, err = store.Get(ctx, "Owned")
	assert.ErrorIs(t, err, domain.ErrConstructorArgs)

	// Interfaces have no creation code and are not indexed
	_, err = store.Get(ctx, "IFace")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseBytecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "object form", raw: `{"object":"0x6080"}`, want: "6080"},
		{name: "string form", raw: `"0x6080"`, want: "6080"},
		{name: "no prefix", raw: `"6080"`, want: "6080"},
		{name: "empty", raw: `"0x"`, want: ""},
		{name: "garbage", raw: `42`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBytecode([]byte(tt.raw)))
		})
	}
}

func TestCompilationTargetFromStringMetadata(t *testing.T) {
	raw := []byte(`"{\"settings\":{\"compilationTarget\":{\"contracts/Multicall2.sol\":\"Multicall2\"}}}"`)
	assert.Equal(t, map[string]string{"contracts/Multicall2.sol": "Multicall2"}, compilationTarget(raw))
}
