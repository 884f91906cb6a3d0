package services

import (
	"fmt"

	"github.com/galihvsx/better-commuline-api/internal/domain"
	"github.com/galihvsx/better-commuline-api/internal/store"
)

// ReferenceService serves the wholesale-cached station and route map
// tables. Trivial passthroughs by design.
type ReferenceService struct {
	db *store.DB
}

func NewReferenceService(db *store.DB) *ReferenceService {
	return &ReferenceService{db: db}
}

func (s *ReferenceService) ListStations() ([]domain.Station, error) {
	stations, err := s.db.ListStations()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return stations, nil
}

func (s *ReferenceService) ListRouteMaps() ([]domain.RouteMap, error) {
	maps, err := s.db.ListRouteMaps()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return maps, nil
}
