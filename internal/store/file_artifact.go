package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/overlaydev/cars-node/internal/logger"
)

// artifactFileStore is the filesystem implementation of [ArtifactStore].
// Uploads are streamed straight to disk; nothing is buffered in memory, so
// multi-gigabyte artifacts cost a constant amount of RAM.
type artifactFileStore struct {
	dir    string
	logger *logger.Logger
}

// NewArtifactFileStore constructs an [ArtifactStore] rooted at dir,
// creating the directory if needed.
func NewArtifactFileStore(dir string, logger *logger.Logger) (ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating artifacts directory: %w", err)
	}

	logger.Debug().Str("dir", dir).Msg("creating artifact file store")
	return &artifactFileStore{dir: dir, logger: logger}, nil
}

// Save streams body to <dir>/<deploymentID>.tgz. The write goes through a
// temporary file renamed into place, so readers never observe a partial
// artifact.
func (s *artifactFileStore) Save(ctx context.Context, deploymentID string, body io.Reader) (int64, error) {
	log := logger.FromContext(ctx)

	if err := validateDeploymentID(deploymentID); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, deploymentID+".partial-*")
	if err != nil {
		log.Err(err).Str("func", "*artifactFileStore.Save").Msg("error creating temp artifact file")
		return 0, fmt.Errorf("error creating temp artifact file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Err(err).Str("func", "*artifactFileStore.Save").Msg("error streaming artifact")
		return written, fmt.Errorf("error streaming artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(deploymentID)); err != nil {
		log.Err(err).Str("func", "*artifactFileStore.Save").Msg("error finalizing artifact")
		return written, fmt.Errorf("error finalizing artifact: %w", err)
	}

	return written, nil
}

// Evict removes one artifact; a missing file is not an error.
func (s *artifactFileStore) Evict(ctx context.Context, deploymentID string) error {
	if err := validateDeploymentID(deploymentID); err != nil {
		return err
	}

	if err := os.Remove(s.path(deploymentID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error evicting artifact: %w", err)
	}

	return nil
}

// EvictAll removes every stored artifact.
func (s *artifactFileStore) EvictAll(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("error listing artifacts: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("error evicting artifact %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func (s *artifactFileStore) path(deploymentID string) string {
	return filepath.Join(s.dir, deploymentID+".tgz")
}

// validateDeploymentID rejects IDs that could escape the artifact
// directory.
func validateDeploymentID(deploymentID string) error {
	if deploymentID == "" || strings.ContainsAny(deploymentID, `/\`) || strings.Contains(deploymentID, "..") {
		return ErrInvalidDeploymentID
	}
	return nil
}
