package classifier

import (
	"github.com/nguyentantai21042004/segment-flow/internal/config"
	"github.com/nguyentantai21042004/segment-flow/internal/inference"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

type implClassifier struct {
	client inference.Client
	policy inference.Policy
	cfg    config.ClassifierConfig
	model  string
	logger logger.Logger
}

// New creates a Classifier that calls client under the configured retry policy.
func New(cfg *config.Config, client inference.Client, log logger.Logger) Classifier {
	return &implClassifier{
		client: client,
		policy: inference.PolicyFrom(cfg.Retry, cfg.Inference.Timeout),
		cfg:    cfg.Classifier,
		model:  cfg.Inference.Model,
		logger: log,
	}
}
