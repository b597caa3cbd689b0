package grouper

import (
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

type implGrouper struct {
	cfg    config.GrouperConfig
	logger logger.Logger
}

// New creates a Grouper from a validated grouper config.
func New(cfg config.GrouperConfig, log logger.Logger) Grouper {
	return &implGrouper{
		cfg:    cfg,
		logger: log,
	}
}
