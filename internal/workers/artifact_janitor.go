package workers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/overlaydev/cars-node/internal/logger"
)

// partialMarker matches the temp files the artifact store writes while an
// upload streams. A crash or client disconnect mid-upload leaves them
// behind; finished uploads are renamed away and never match.
const partialMarker = ".partial-"

// ArtifactJanitor periodically removes abandoned partial uploads from the
// artifacts directory. A partial file is abandoned once it is older than
// maxAge, which the caller sets to the upload timeout: no live upload can
// still be writing it.
type ArtifactJanitor struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	logger   *logger.Logger
}

func NewArtifactJanitor(dir string, maxAge, interval time.Duration, logger *logger.Logger) *ArtifactJanitor {
	return &ArtifactJanitor{
		dir:      dir,
		maxAge:   maxAge,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (j *ArtifactJanitor) Run(ctx context.Context) {
	j.logger.Info().Str("dir", j.dir).Dur("interval", j.interval).Msg("artifact janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("artifact janitor stopped")
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep removes every abandoned partial upload it finds. Errors on
// individual files are logged and skipped; a sweep never aborts early.
func (j *ArtifactJanitor) Sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Warn().Err(err).Msg("error listing artifacts directory")
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), partialMarker) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			j.logger.Warn().Err(err).Str("file", entry.Name()).Msg("error inspecting partial upload")
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			j.logger.Warn().Err(err).Str("file", entry.Name()).Msg("error removing abandoned upload")
			continue
		}
		j.logger.Info().Str("file", entry.Name()).Msg("removed abandoned upload")
	}
}
