// Package sqlitestorage implements the storage.Backend interface using an
// in-memory SQLite database through GORM. Nothing is written to disk.
package sqlitestorage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gridline/racesim/internal/database"
	"github.com/gridline/racesim/internal/model"
	"github.com/gridline/racesim/pkg/core"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Name string // shared-cache database name; empty for a private database
}

// Backend stores races in an in-memory SQLite database.
type Backend struct {
	cfg Config
	db  *gorm.DB
}

// New creates a new SQLite storage backend. The database is opened by Init.
func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init opens the database and migrates the schema.
func (b *Backend) Init() error {
	db, err := database.OpenMemory(b.cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	if err := database.Setup(db); err != nil {
		return err
	}
	b.db = db
	return nil
}

// Close releases the database. An in-memory database is gone afterwards.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	b.db = nil
	return sqlDB.Close()
}

// SaveRace stores a race and its results in one transaction.
func (b *Backend) SaveRace(r *core.Race) error {
	row, err := model.FromRace(r)
	if err != nil {
		return fmt.Errorf("failed to convert race %s: %w", r.ID, err)
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Race{}).Where("id = ?", r.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", core.ErrDuplicateRace, r.ID)
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert race %s: %w", r.ID, err)
		}
		return nil
	})
}

// Race returns the race stored under id.
func (b *Backend) Race(id string) (core.Race, error) {
	var row model.Race
	err := b.db.Preload("Results", orderByPosition).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Race{}, fmt.Errorf("%w: %s", core.ErrRaceNotFound, id)
	}
	if err != nil {
		return core.Race{}, err
	}
	return row.ToCore()
}

// Races returns every stored race in round order.
func (b *Backend) Races() ([]core.Race, error) {
	var rows []model.Race
	if err := b.db.Preload("Results", orderByPosition).Order("round, time").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]core.Race, 0, len(rows))
	for i := range rows {
		r, err := rows[i].ToCore()
		if err != nil {
			return nil, fmt.Errorf("race %s: %w", rows[i].ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

const finished = string(core.StatusFinished)

const (
	winExpr    = "SUM(CASE WHEN status = ? AND position = 1 THEN 1 ELSE 0 END)"
	podiumExpr = "SUM(CASE WHEN status = ? AND position <= 3 THEN 1 ELSE 0 END)"
)

// Standings aggregates the drivers' championship table.
func (b *Backend) Standings() ([]core.Standing, error) {
	var rows []model.StandingRow
	err := b.db.Model(&model.Result{}).
		Select("competitor, MAX(constructor) AS constructor, SUM(points) AS points, "+
			winExpr+" AS wins, "+podiumExpr+" AS podiums, COUNT(*) AS races",
			finished, finished).
		Group("competitor").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate standings: %w", err)
	}

	out := make([]core.Standing, len(rows))
	for i, r := range rows {
		out[i] = core.Standing{
			Competitor:  r.Competitor,
			Constructor: r.Constructor,
			Points:      r.Points,
			Wins:        r.Wins,
			Podiums:     r.Podiums,
			Races:       r.Races,
		}
	}
	core.SortStandings(out)
	return out, nil
}

// ConstructorStandings aggregates the teams' championship table.
func (b *Backend) ConstructorStandings() ([]core.ConstructorStanding, error) {
	var rows []model.ConstructorStandingRow
	err := b.db.Model(&model.Result{}).
		Select("constructor, SUM(points) AS points, "+winExpr+" AS wins, "+podiumExpr+" AS podiums",
			finished, finished).
		Group("constructor").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate constructor standings: %w", err)
	}

	out := make([]core.ConstructorStanding, len(rows))
	for i, r := range rows {
		out[i] = core.ConstructorStanding(r)
	}
	core.SortConstructorStandings(out)
	return out, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
