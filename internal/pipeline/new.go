package pipeline

import (
	"github.com/nguyentantai21042004/segment-flow/internal/classifier"
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/filter"
	"github.com/nguyentantai21042004/segment-flow/internal/grouper"
	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
	"github.com/nguyentantai21042004/segment-flow/internal/summarizer"
)

type implPipeline struct {
	classifier classifier.Classifier
	filter     filter.Filter
	grouper    grouper.Grouper
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// New wires every stage from one validated config and a shared client.
func New(cfg *config.Config, client inference.Client, log logger.Logger) Pipeline {
	return &implPipeline{
		classifier: classifier.New(cfg, client, log),
		filter:     filter.New(cfg.Filter, log),
		grouper:    grouper.New(cfg.Grouper, log),
		summarizer: summarizer.New(cfg, client, log),
		logger:     log,
	}
}
