package httpapi

import (
	"context"

	"quizkit/internal/archive"
	"quizkit/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	service *archive.Service
	pinger  Pinger
	log     *logger.Logger
}

func NewAPI(service *archive.Service, pinger Pinger, log *logger.Logger) *API {
	return &API{
		service: service,
		pinger:  pinger,
		log:     logger.OrNop(log),
	}
}
