package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// Store indexes compiled artifacts from a Foundry out/ directory or a
// Hardhat/Truffle artifacts/ directory
type Store struct {
	dir       string
	log       *slog.Logger
	artifacts map[string][]*entry // key: "Name" and "Source.sol:Name"
	mu        sync.RWMutex
	indexed   bool
}

type entry struct {
	artifact *models.Artifact
	err      error // set when the artifact cannot be deployed as-is
}

// rawArtifact covers the fields shared by Foundry, Hardhat and Truffle artifacts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

type bytecodeObject struct {
	Object string `json:"object"`
}

type artifactMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// NewStore creates a new artifact store rooted at dir
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:       dir,
		log:       log,
		artifacts: make(map[string][]*entry),
	}
}

// NewStoreFromConfig creates a store for the configured artifacts directory
func NewStoreFromConfig(cfg *config.RuntimeConfig, log *slog.Logger) *Store {
	return NewStore(cfg.ArtifactsDir, log)
}

// Dir returns the artifacts directory
func (s *Store) Dir() string {
	return s.dir
}

// Get resolves an artifact by "Name" or "Source.sol:Name"
func (s *Store) Get(ctx context.Context, name string) (*models.Artifact, error) {
	if err := s.Index(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matches := s.artifacts[name]
	s.mu.RUnlock()

	if len(matches) == 0 {
		return nil, &domain.ArtifactNotFoundError{
			Name:        name,
			Dir:         s.dir,
			Suggestions: s.suggest(name),
		}
	}

	e, ok := pickBuild(matches)
	if !ok {
		paths := lo.Map(matches, func(e *entry, _ int) string { return e.artifact.Path })
		sort.Strings(paths)
		return nil, &domain.AmbiguousArtifactError{Name: name, Matches: paths}
	}
	if e.err != nil {
		return nil, fmt.Errorf("artifact %s (%s): %w", name, e.artifact.Path, e.err)
	}

	s.log.Debug("resolved artifact", "name", name, "path", e.artifact.Path, "size", len(e.artifact.Bytecode))
	return e.artifact, nil
}

// Names returns the contract names in the index
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := lo.Filter(lo.Keys(s.artifacts), func(k string, _ int) bool {
		return !strings.Contains(k, ":")
	})
	sort.Strings(names)
	return names
}

func (s *Store) suggest(name string) []string {
	matches := fuzzy.Find(name, s.Names())
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// Index walks the artifacts directory once. A missing directory yields an
// empty index.
func (s *Store) Index() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexed {
		return nil
	}

	s.artifacts = make(map[string][]*entry)

	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		s.log.Debug("artifacts directory does not exist", "dir", s.dir)
		s.indexed = true
		return nil
	}

	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "build-info", "debug", "cache":
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		return s.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", s.dir, err)
	}

	s.indexed = true
	s.log.Debug("indexed artifacts", "dir", s.dir, "keys", len(s.artifacts))
	return nil
}

// processArtifact parses one artifact file. Files that are not artifacts, or
// that carry no creation bytecode, are skipped.
func (s *Store) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil || len(raw.ABI) == 0 {
		return nil
	}

	code := parseBytecode(raw.Bytecode)
	if code == "" {
		return nil
	}

	name, source := raw.ContractName, ""
	if raw.SourceName != "" {
		source = filepath.Base(raw.SourceName)
	}
	if target := compilationTarget(raw.Metadata); target != nil {
		for src, contract := range target {
			if name == "" {
				name = contract
			}
			if source == "" {
				source = filepath.Base(src)
			}
			break
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if source == "" {
		if parent := filepath.Base(filepath.Dir(path)); strings.HasSuffix(parent, ".sol") {
			source = parent
		}
	}

	artifact := &models.Artifact{
		Name:   name,
		Source: source,
		Path:   path,
		ABI:    raw.ABI,
	}
	e := &entry{artifact: artifact}
	artifact.Bytecode, e.err = decodeDeployable(code, raw.ABI)

	s.artifacts[name] = append(s.artifacts[name], e)
	if source != "" {
		fqn := e.artifact.FullyQualifiedName()
		s.artifacts[fqn] = append(s.artifacts[fqn], e)
	}

	s.log.Debug("processing artifact", "path", path, "name", name, "source", source)
	return nil
}

// pickBuild selects one entry. Several builds of the same Source.sol:Name
// (Foundry writes Name.0.8.10.json, Name.0.8.20.json when one source is
// compiled by several solc versions) resolve to the unversioned Name.json,
// else to the newest compiler version. Distinct contracts stay ambiguous.
func pickBuild(matches []*entry) (*entry, bool) {
	if len(matches) == 1 {
		return matches[0], true
	}

	fqn := matches[0].artifact.FullyQualifiedName()
	for _, e := range matches {
		if e.artifact.Source == "" || e.artifact.FullyQualifiedName() != fqn {
			return nil, false
		}
	}

	plain := lo.Filter(matches, func(e *entry, _ int) bool {
		return artifactStem(e.artifact) == e.artifact.Name
	})
	switch len(plain) {
	case 1:
		return plain[0], true
	case 0:
	default:
		return nil, false
	}

	var best *entry
	var bestVersion []int
	tie := false
	for _, e := range matches {
		version, ok := compilerVersion(artifactStem(e.artifact), e.artifact.Name)
		if !ok {
			return nil, false
		}
		switch cmp := compareVersions(version, bestVersion); {
		case best == nil || cmp > 0:
			best, bestVersion, tie = e, version, false
		case cmp == 0:
			tie = true
		}
	}
	return best, !tie
}

func artifactStem(a *models.Artifact) string {
	return strings.TrimSuffix(filepath.Base(a.Path), ".json")
}

// compilerVersion parses the "0.8.20" in "Multicall2.0.8.20"
func compilerVersion(stem, name string) ([]int, bool) {
	rest, found := strings.CutPrefix(stem, name+".")
	if !found || rest == "" {
		return nil, false
	}

	parts := strings.Split(rest, ".")
	version := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		version[i] = n
	}
	return version, true
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

// parseBytecode accepts both the Foundry {"object": "0x.."} form and the
// plain string form. Returns hex without the 0x prefix, or "" when empty.
func parseBytecode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		var obj bytecodeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		code = obj.Object
	}

	return strings.TrimPrefix(strings.TrimSpace(code), "0x")
}

// compilationTarget reads metadata.settings.compilationTarget; metadata may be
// an object (Foundry) or a JSON-encoded string (Truffle)
func compilationTarget(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var meta artifactMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &meta); err != nil {
			return nil
		}
	}
	return meta.Settings.CompilationTarget
}

// decodeDeployable decodes creation bytecode and checks the contract can be
// deployed without constructor arguments
func decodeDeployable(code string, rawABI json.RawMessage) ([]byte, error) {
	if strings.Contains(code, "__") {
		return nil, domain.ErrUnlinkedBytecode
	}

	bytecode, err := hexutil.Decode("0x" + code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}

	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI: %w", err)
	}
	if n := len(parsed.Constructor.Inputs); n > 0 {
		return nil, fmt.Errorf("%w: %d inputs", domain.ErrConstructorArgs, n)
	}

	return bytecode, nil
}

// Ensure the store implements the port
var _ usecase.ArtifactStore = (*Store)(nil)
