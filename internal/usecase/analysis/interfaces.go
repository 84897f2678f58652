package analysis

import (
	"context"

	"github.com/futig/proposal-backend/internal/entity"
)

// LLMConnector provides completions for name extraction and summarization.
type LLMConnector interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// StorageConnector is the external document store holding project files.
type StorageConnector interface {
	SearchFiles(ctx context.Context, query string) ([]entity.StorageFile, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	ExportFile(ctx context.Context, fileID string) ([]byte, error)
}
