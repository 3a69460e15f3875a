package services

import "context"

// HealthResult is the liveness payload
type HealthResult struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// HealthService implements the health service
type HealthService struct {
	service string
}

// NewHealthService creates a new health service
func NewHealthService(service string) *HealthService {
	return &HealthService{service: service}
}

// Check implements the health check method. It never fails.
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	return &HealthResult{OK: true, Service: s.service}
}
