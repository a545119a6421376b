package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"coupon-service/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped JSON-lines files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a gzipped seed file. Each non-empty line is one JSON coupon
// definition.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.CouponRequest, error) {
	l.logger.Info().Str("file", filePath).Msg("loading seed file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	definitions, err := parseDefinitions(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading seed file")
		return nil, fmt.Errorf("error reading seed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("definitions", len(definitions)).
		Msg("seed file loaded successfully")

	return definitions, nil
}

// parseDefinitions decodes one JSON coupon definition per line.
func parseDefinitions(ctx context.Context, r io.Reader) ([]model.CouponRequest, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var definitions []model.CouponRequest
	line := 0
	for scanner.Scan() {
		line++
		if line%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var def model.CouponRequest
		if err := json.Unmarshal([]byte(text), &def); err != nil {
			return nil, fmt.Errorf("invalid coupon definition on line %d: %w", line, err)
		}
		definitions = append(definitions, def)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return definitions, nil
}
