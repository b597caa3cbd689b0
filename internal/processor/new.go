package processor

import (
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/pipeline"
	"github.com/nguyentantai21042004/segment-flow/internal/store"
)

type implProcessor struct {
	cfg      *config.Config
	pipeline pipeline.Pipeline
	store    store.Store
	logger   logger.Logger
}

// New creates a Processor. st may be nil when no run store is configured.
func New(cfg *config.Config, pipe pipeline.Pipeline, st store.Store, log logger.Logger) Processor {
	return &implProcessor{
		cfg:      cfg,
		pipeline: pipe,
		store:    st,
		logger:   log,
	}
}
