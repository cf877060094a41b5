// Package rosetta reconciles sports records across data providers. Each
// provider ships its own identifiers for the same real-world matches,
// players, and teams; rosetta reduces N per-provider tables into one
// deduplicated cross-reference table carrying every provider's identifier
// side by side.
//
// The package is a thin facade over the engine packages: pkg/content wraps
// provider tables, pkg/sync holds the three-pass engine and the pairwise
// matchers, pkg/similarity and pkg/textnorm supply the string matching
// underneath. Typical use:
//
//	home, _ := rosetta.NewContent(rosetta.EntityTypeTeam, "opta", optaTeams)
//	away, _ := rosetta.NewContent(rosetta.EntityTypeTeam, "wyscout", wyscoutTeams)
//	engine, _ := rosetta.NewTeamEngine([]*rosetta.Content{home, away})
//	synced, _ := engine.Synchronize()
package rosetta

import (
	"github.com/sportsync/rosetta/pkg/content"
	"github.com/sportsync/rosetta/pkg/sync"
	"github.com/sportsync/rosetta/pkg/tabular"
)

// Re-exported core types, so callers only dealing with the standard flow
// never need to import the engine packages directly.
type (
	// Content wraps one provider's table of one entity type.
	Content = content.Content

	// EntityType is the category of record being reconciled.
	EntityType = content.EntityType

	// Table is the null-aware tabular container provider data is loaded
	// into.
	Table = tabular.Table

	// Engine drives the three-pass synchronization algorithm.
	Engine = sync.Engine

	// Option configures an engine.
	Option = sync.Option

	// Layer is one strategy of the player synchronization cascade.
	Layer = sync.Layer

	// Method selects a player layer's string-similarity methodology.
	Method = sync.Method
)

// Supported entity types.
const (
	EntityTypeMatch  = content.EntityTypeMatch
	EntityTypePlayer = content.EntityTypePlayer
	EntityTypeTeam   = content.EntityTypeTeam
)

// Player-layer similarity methodologies.
const (
	MethodCosine = sync.MethodCosine
	MethodNaive  = sync.MethodNaive
	MethodFuzzy  = sync.MethodFuzzy
)

// NewContent creates a provider content wrapper, validating that the table
// carries the provider-qualified identifier column with a value on every
// row.
func NewContent(entityType EntityType, provider string, data *Table) (*Content, error) {
	return content.New(entityType, provider, data)
}

// NewMatchEngine creates a synchronization engine for fixture records.
func NewMatchEngine(cs []*Content, opts ...Option) (*Engine, error) {
	return sync.NewMatchEngine(cs, opts...)
}

// NewPlayerEngine creates a synchronization engine for player records.
func NewPlayerEngine(cs []*Content, opts ...Option) (*Engine, error) {
	return sync.NewPlayerEngine(cs, opts...)
}

// NewTeamEngine creates a synchronization engine for team records.
func NewTeamEngine(cs []*Content, opts ...Option) (*Engine, error) {
	return sync.NewTeamEngine(cs, opts...)
}

// Engine options, re-exported.
var (
	// WithLogger attaches a trace logger. Tracing never changes results.
	WithLogger = sync.WithLogger

	// WithCompetitionContext adds competition_id and season_id to the
	// exact-join key columns of the match and team engines.
	WithCompetitionContext = sync.WithCompetitionContext

	// WithJoinColumns overrides the engine's dedup join columns.
	WithJoinColumns = sync.WithJoinColumns

	// WithPlayerLayers replaces the player engine's built-in cascade.
	WithPlayerLayers = sync.WithPlayerLayers
)
