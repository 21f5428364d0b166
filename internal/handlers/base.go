package handlers

import (
	"rag-api/internal/services"
)

// BaseHandler provides common functionality and dependencies for all handlers
type BaseHandler struct {
	services *services.Services
}

// NewBaseHandler creates a new base handler with the required service dependencies
func NewBaseHandler(services *services.Services) *BaseHandler {
	return &BaseHandler{
		services: services,
	}
}

// GetServices returns the services instance
func (h *BaseHandler) GetServices() *services.Services {
	return h.services
}

// Handlers holds all handler instances
type Handlers struct {
	Health *HealthHandler
	Ingest *IngestHandler
	Query  *QueryHandler
}

// NewHandlers creates and returns all handler instances
func NewHandlers(services *services.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(services.Health),
		Ingest: NewIngestHandler(services.Ingest),
		Query:  NewQueryHandler(services.Query),
	}
}
