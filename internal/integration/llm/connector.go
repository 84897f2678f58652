package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/integration/common"
	pkghttp "github.com/futig/proposal-backend/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends a system/user prompt pair to the completion service and
// returns the generated text.
func (c *Connector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctxzap.Info(ctx, "requesting completion from LLM service",
		zap.Int("system_prompt_length", len(systemPrompt)),
		zap.Int("user_prompt_length", len(userPrompt)),
	)

	req := &entity.LLMCompleteRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	}

	resp, err := common.DoWithRetry(ctx, &c.config.Retry, func() (*entity.LLMCompleteResponse, error) {
		var r entity.LLMCompleteResponse
		if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompleteEndpoint, req, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		return "", fmt.Errorf("complete failed: %w", err)
	}

	if resp.Result == "" {
		return "", fmt.Errorf("invalid completion response: empty or missing result field")
	}

	ctxzap.Info(ctx, "completion received", zap.Int("result_length", len(resp.Result)))

	return resp.Result, nil
}
