package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/integration/common"
	pkghttp "github.com/futig/proposal-backend/pkg/http"
)

const defaultPageSize = 20

type Connector struct {
	config    config.StorageConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.StorageConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// SearchFiles runs a metadata query against the document store.
func (c *Connector) SearchFiles(ctx context.Context, query string) ([]entity.StorageFile, error) {
	ctxzap.Debug(ctx, "searching document store", zap.String("query", query))

	req := &entity.StorageSearchRequest{
		Query:    query,
		PageSize: defaultPageSize,
	}

	resp, err := common.DoWithRetry(ctx, &c.config.Retry, func() (*entity.StorageSearchResponse, error) {
		var r entity.StorageSearchResponse
		if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.SearchEndpoint, req, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search files failed: %w", err)
	}

	ctxzap.Debug(ctx, "document store search completed", zap.Int("file_count", len(resp.Files)))

	return resp.Files, nil
}

// DownloadFile fetches the raw bytes of a stored file.
func (c *Connector) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	ctxzap.Debug(ctx, "downloading file", zap.String("file_id", fileID))

	endpoint := c.config.DownloadEndpoint + "/" + url.PathEscape(fileID)

	data, err := common.DoWithRetry(ctx, &c.config.Retry, func() ([]byte, error) {
		return c.connector.DoRawRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("download file %s failed: %w", fileID, err)
	}

	return data, nil
}

// ExportFile converts a native store document (e.g. an online doc) to plain
// text and returns the exported bytes.
func (c *Connector) ExportFile(ctx context.Context, fileID string) ([]byte, error) {
	ctxzap.Debug(ctx, "exporting file as plain text", zap.String("file_id", fileID))

	endpoint := c.config.ExportEndpoint + "/" + url.PathEscape(fileID)

	data, err := common.DoWithRetry(ctx, &c.config.Retry, func() ([]byte, error) {
		return c.connector.DoRawRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("export file %s failed: %w", fileID, err)
	}

	return data, nil
}
