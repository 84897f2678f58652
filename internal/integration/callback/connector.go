package callback

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/integration/common"
	pkghttp "github.com/futig/proposal-backend/pkg/http"
)

type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SendResult delivers the finished proposal to the client callback URL
func (c *Connector) SendResult(ctx context.Context, callbackURL string, runID string, data *entity.RunResultDTO) {
	err := c.Send(ctx, callbackURL, runID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeResult,
		Data:  data,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send result callback", zap.Error(err))
	}
}

// SendError delivers a failure notification to the client callback URL
func (c *Connector) SendError(ctx context.Context, callbackURL string, runID string, message string, details map[string]any) {
	err := c.Send(ctx, callbackURL, runID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeError,
		Data: &entity.CallbackErrorData{
			Error: entity.CallbackErrorDetails{
				Message: message,
				Details: details,
			},
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send error callback", zap.Error(err))
	}
}

func (c *Connector) Send(ctx context.Context, callbackURL string, runID string, event *entity.CallbackEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	ctxzap.Debug(ctx, "sending callback event",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("run_id", runID),
		zap.String("timestamp", event.Timestamp),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithHeader("X-Run-ID", runID),
		pkghttp.WithURL(callbackURL),
	}

	_, err := common.DoWithRetry(ctx, &c.config.Retry, func() (struct{}, error) {
		return struct{}{}, c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, opts...)
	})
	if err != nil {
		return fmt.Errorf("failed to send callback, event_type: %s, url: %s, error: %w", string(event.Event), callbackURL, err)
	}

	ctxzap.Info(ctx, "callback sent successfully",
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("run_id", runID),
	)
	return nil
}
