package plan

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalogues on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based plan loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "plan-loader").Logger(),
	}
}

// Load reads and parses a YAML catalogue file.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Catalogue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading plan catalogue")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read plan catalogue")
		return nil, fmt.Errorf("failed to read plan catalogue %s: %w", filePath, err)
	}

	catalogue, err := Parse(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("invalid plan catalogue")
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("plans_loaded", catalogue.Size()).
		Str("default_plan", catalogue.Default).
		Msg("plan catalogue loaded successfully")

	return catalogue, nil
}
