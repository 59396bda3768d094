package shutdown

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"nftgen/core"
	"nftgen/logging"
)

// TempFilePattern matches the temp files left by an interrupted atomic write
// of an image or metadata record.
const TempFilePattern = ".*.tmp-*"

// RemoveTempFiles returns a cleanup function that deletes leftover temp files
// from each directory. Failures are logged, never returned, so they do not
// mask the run's own error.
func RemoveTempFiles(log *logging.Logger, dirs ...string) core.ShutdownFunc {
	return func(ctx context.Context) error {
		removed := 0
		for _, dir := range dirs {
			matches, err := filepath.Glob(filepath.Join(dir, TempFilePattern))
			if err != nil {
				log.Warn("failed to list temp files", logging.Path(dir), zap.Error(err))
				continue
			}
			for _, match := range matches {
				if ctx.Err() != nil {
					log.Warn("cleanup cancelled", zap.Int("removed", removed))
					return nil
				}
				if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
					log.Warn("failed to remove temp file", logging.Path(match), zap.Error(err))
					continue
				}
				removed++
			}
		}
		if removed > 0 {
			log.Info("removed leftover temp files", zap.Int("count", removed))
		}
		return nil
	}
}
