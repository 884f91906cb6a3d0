package services

import (
	"context"

	"github.com/galihvsx/better-commuline-api/internal/krl"
)

// fareUpstream is the slice of the KRL client the fare proxy needs.
type fareUpstream interface {
	GetFare(ctx context.Context, stationFrom, stationTo string) ([]krl.FareData, error)
}

// FareService proxies fare lookups straight upstream; fares are
// real-time and never cached.
type FareService struct {
	client fareUpstream
}

func NewFareService(client fareUpstream) *FareService {
	return &FareService{client: client}
}

func (s *FareService) Get(ctx context.Context, stationFrom, stationTo string) ([]krl.FareData, error) {
	return s.client.GetFare(ctx, stationFrom, stationTo)
}
