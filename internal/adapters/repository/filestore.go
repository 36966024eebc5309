package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/pkg/metrics"
)

// Artifact filename scheme; route_id is embedded verbatim, so ids must not
// contain path separators.
const (
	modelPrefix    = "model_route_"
	metadataPrefix = "metadata_route_"

	dirPerm = 0o755
)

// FileStore keeps one model blob and one metadata record per route as flat
// JSON files in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func validateRouteID(routeID string) error {
	if routeID == "" || strings.ContainsAny(routeID, `/\`) || routeID != filepath.Base(routeID) {
		return fmt.Errorf("%w: %q", ErrInvalidRouteID, routeID)
	}
	return nil
}

func (s *FileStore) modelPath(routeID string) string {
	return filepath.Join(s.dir, modelPrefix+routeID)
}

func (s *FileStore) metadataPath(routeID string) string {
	return filepath.Join(s.dir, metadataPrefix+routeID)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it in place, so readers never observe a partially written file.
func (s *FileStore) writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Save persists the model blob, then the metadata record. Each file is
// published atomically; the pair as a whole is not, matching the two-file
// contract.
func (s *FileStore) Save(ctx context.Context, routeID string, art Artifact, meta types.Metadata) error {
	if err := validateRouteID(routeID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save canceled: %w", err)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	modelBytes, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("marshal model artifact: %w", err)
	}
	if err := s.writeFileAtomic(s.modelPath(routeID), modelBytes); err != nil {
		return err
	}

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := s.writeFileAtomic(s.metadataPath(routeID), metaBytes); err != nil {
		return err
	}
	metrics.RecordModelSave()
	return nil
}

// Load reads both artifacts for a route. Absence of either file is
// ErrNotFound, never a crash.
func (s *FileStore) Load(ctx context.Context, routeID string) (Artifact, types.Metadata, error) {
	var (
		art  Artifact
		meta types.Metadata
	)
	if err := validateRouteID(routeID); err != nil {
		return art, meta, err
	}
	if err := ctx.Err(); err != nil {
		return art, meta, fmt.Errorf("load canceled: %w", err)
	}

	modelBytes, err := os.ReadFile(s.modelPath(routeID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return art, meta, fmt.Errorf("%w: %s", ErrNotFound, routeID)
		}
		return art, meta, fmt.Errorf("read model artifact: %w", err)
	}
	metaBytes, err := os.ReadFile(s.metadataPath(routeID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return art, meta, fmt.Errorf("%w: %s", ErrNotFound, routeID)
		}
		return art, meta, fmt.Errorf("read metadata: %w", err)
	}

	if err := json.Unmarshal(modelBytes, &art); err != nil {
		return art, meta, fmt.Errorf("unmarshal model artifact: %w", err)
	}
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return art, meta, fmt.Errorf("unmarshal metadata: %w", err)
	}
	metrics.RecordModelLoad()
	return art, meta, nil
}

// ListRoutes scans the directory for model files; no index file needed.
func (s *FileStore) ListRoutes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list canceled: %w", err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, modelPrefix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(name, modelPrefix))
	}
	sort.Strings(ids)
	metrics.UpdateStoredRoutes(len(ids))
	return ids, nil
}
