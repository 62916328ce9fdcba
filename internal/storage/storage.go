// internal/storage/storage.go
package storage

import "github.com/gridline/racesim/pkg/core"

// Backend is the interface all results stores must satisfy. Stores live in
// process memory only.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Race records
	SaveRace(r *core.Race) error
	Race(id string) (core.Race, error)
	Races() ([]core.Race, error)

	// Championship tables over every stored race
	Standings() ([]core.Standing, error)
	ConstructorStandings() ([]core.ConstructorStanding, error)
}
