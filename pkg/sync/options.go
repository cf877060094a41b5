package sync

import (
	"github.com/rs/zerolog"

	"github.com/sportsync/rosetta/pkg/logging"
)

// options configures a synchronization engine.
type options struct {
	logger                zerolog.Logger
	useCompetitionContext bool
	joinColumns           []string
	playerLayers          []Layer
}

func defaultOptions() *options {
	return &options{
		logger: logging.Nop,
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns engine options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithLogger attaches a trace logger. Tracing is purely observational:
// attaching or omitting a logger never changes computed results. The
// default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithCompetitionContext adds competition_id and season_id (assumed to be
// universal across providers) to the exact-join key columns of the match
// and team engines.
func WithCompetitionContext(enabled bool) Option {
	return func(o *options) error {
		o.useCompetitionContext = enabled
		return nil
	}
}

// WithJoinColumns overrides the engine's dedup join columns.
func WithJoinColumns(columns ...string) Option {
	return func(o *options) error {
		o.joinColumns = columns
		return nil
	}
}

// WithPlayerLayers replaces the player engine's built-in cascade with
// custom layers, applied in order after the initial jersey/team layer.
func WithPlayerLayers(layers ...Layer) Option {
	return func(o *options) error {
		o.playerLayers = layers
		return nil
	}
}
