package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

// Pinger is anything that can report its own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type StatusService struct {
	repomanager repomanager.RepositoryManager
	redis       Pinger
}

func NewStatusService(m repomanager.RepositoryManager, redis Pinger) *StatusService {
	return &StatusService{repomanager: m, redis: redis}
}

func (s *StatusService) Status(ctx context.Context) Status {
	return Status{
		Redis: s.redis.Ping(ctx) == nil,
		DB:    s.repomanager.Ping(ctx) == nil,
	}
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	files, err := s.repomanager.Files().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}
