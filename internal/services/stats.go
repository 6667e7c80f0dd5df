package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkravets/filehub/internal/cache"
	"github.com/mkravets/filehub/internal/repositories/files"
	"github.com/mkravets/filehub/internal/repositories/users"
)

// Status reports liveness of the stores the request path depends on.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats reports aggregate usage counters.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// StatsService backs the operational status and stats endpoints.
type StatsService struct {
	users users.Repository
	files files.Repository
	cache cache.Cache
	db    *sql.DB
}

func NewStatsService(u users.Repository, f files.Repository, c cache.Cache, db *sql.DB) *StatsService {
	return &StatsService{users: u, files: f, cache: c, db: db}
}

// Status probes the cache and the database. Probe failures read as "down"
// rather than errors.
func (s *StatsService) Status(ctx context.Context) Status {
	st := Status{
		Redis: s.cache.Ping(ctx) == nil,
	}
	if s.db != nil {
		st.DB = s.db.PingContext(ctx) == nil
	}
	return st
}

// Stats returns the number of registered users and stored files.
func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	usersCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	filesCount, err := s.files.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting files: %w", err)
	}
	return &Stats{Users: usersCount, Files: filesCount}, nil
}
