// Package logging provides a cachekit.ObservabilityHook backed by
// github.com/rs/zerolog, turning hit/miss/set/error callbacks into
// structured log lines at a level proportional to their severity.
package logging

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cachekit/cachekit"
)

// Hook logs hit/miss/set/error events at a level proportional to their
// severity: hits and sets at Debug, misses at Info, errors at Warn.
type Hook struct {
	logger zerolog.Logger
}

var _ cachekit.ObservabilityHook = Hook{}

// New builds a Hook that writes through logger.
func New(logger zerolog.Logger) Hook {
	return Hook{logger: logger}
}

func (h Hook) OnHit(key cachekit.Key, tags []string, elapsed time.Duration) {
	h.logger.Debug().
		Str("key", key.String()).
		Str("tags", strings.Join(tags, ",")).
		Dur("elapsed", elapsed).
		Msg("cachekit: hit")
}

func (h Hook) OnMiss(key cachekit.Key, tags []string, elapsed time.Duration) {
	h.logger.Info().
		Str("key", key.String()).
		Str("tags", strings.Join(tags, ",")).
		Dur("elapsed", elapsed).
		Msg("cachekit: miss")
}

func (h Hook) OnSet(key cachekit.Key, tags []string, elapsed time.Duration) {
	h.logger.Debug().
		Str("key", key.String()).
		Str("tags", strings.Join(tags, ",")).
		Dur("elapsed", elapsed).
		Msg("cachekit: set")
}

func (h Hook) OnError(key cachekit.Key, kind cachekit.ErrorKind, tags []string, elapsed time.Duration) {
	h.logger.Warn().
		Str("key", key.String()).
		Str("kind", string(kind)).
		Str("tags", strings.Join(tags, ",")).
		Dur("elapsed", elapsed).
		Msgf("cachekit: %s", kind)
}
