package summarizer

import (
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

type implSummarizer struct {
	client inference.Client
	policy inference.Policy
	cfg    config.SummarizerConfig
	model  string
	logger logger.Logger
}

// New creates a Summarizer that calls client with the summary model and
// the summarizer's own per-call timeout.
func New(cfg *config.Config, client inference.Client, log logger.Logger) Summarizer {
	return &implSummarizer{
		client: client,
		policy: inference.PolicyFrom(cfg.Retry, cfg.Summarizer.Timeout),
		cfg:    cfg.Summarizer,
		model:  cfg.Inference.SummaryModel,
		logger: log,
	}
}
