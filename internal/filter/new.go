package filter

import (
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
)

type implFilter struct {
	exclude   segment.LabelSet
	minWords  int
	threshold float64
	logger    logger.Logger
}

// New creates a Filter from a validated filter config.
func New(cfg config.FilterConfig, log logger.Logger) Filter {
	return &implFilter{
		exclude:   cfg.Exclude,
		minWords:  cfg.MinWords,
		threshold: cfg.SimilarityThreshold,
		logger:    log,
	}
}
