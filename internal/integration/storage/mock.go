package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/entity"
)

// MockConnector serves a small fixed document set for local development.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func mockFiles() []entity.StorageFile {
	created := time.Now().Add(-30 * 24 * time.Hour).UTC().Format(time.RFC3339)
	modified := time.Now().Add(-7 * 24 * time.Hour).UTC().Format(time.RFC3339)

	return []entity.StorageFile{
		{
			ID:           "mock-spec-1",
			Name:         "Customer Portal Technical Specification.txt",
			MimeType:     "text/plain",
			Size:         "2048",
			CreatedTime:  created,
			ModifiedTime: modified,
			WebViewLink:  "https://storage.local/mock-spec-1",
		},
		{
			ID:           "mock-req-1",
			Name:         "Portal Requirements v2.txt",
			MimeType:     "text/plain",
			Size:         "1024",
			CreatedTime:  created,
			ModifiedTime: modified,
			WebViewLink:  "https://storage.local/mock-req-1",
		},
		{
			ID:           "mock-design-1",
			Name:         "System Design Overview.txt",
			MimeType:     "text/plain",
			Size:         "4096",
			CreatedTime:  created,
			ModifiedTime: modified,
			WebViewLink:  "https://storage.local/mock-design-1",
		},
	}
}

var mockContents = map[string]string{
	"mock-spec-1": "Technical specification for the customer portal.\n" +
		"The platform must use a responsive architecture.\n" +
		"Requirement: the system shall support SSO.\n",
	"mock-req-1": "Portal requirements.\n" +
		"The system must handle 1000 concurrent users.\n" +
		"Objective: increase self-service adoption.\n" +
		"Budget constraint: fixed price engagement.\n",
	"mock-design-1": "System design overview.\n" +
		"Architecture: modular services behind an API gateway.\n" +
		"Goal: reduce operational costs.\n" +
		"Deadline: six months from contract signing.\n",
}

// SearchFiles returns the fixture files whose names loosely match the query.
func (m *MockConnector) SearchFiles(ctx context.Context, query string) ([]entity.StorageFile, error) {
	ctxzap.Info(ctx, "[MOCK] searching document store", zap.String("query", query))

	// Generic type queries match everything, name queries filter by substring.
	var results []entity.StorageFile
	for _, f := range mockFiles() {
		if matchesQuery(f.Name, query) {
			results = append(results, f)
		}
	}

	return results, nil
}

func matchesQuery(name, query string) bool {
	nameLower := strings.ToLower(name)
	queryLower := strings.ToLower(query)

	for _, keyword := range []string{"specification", "requirement", "design", "proposal", "contract", "scope"} {
		if strings.Contains(queryLower, keyword) && strings.Contains(nameLower, keyword) {
			return true
		}
	}

	// Extract quoted terms from queries like "name contains 'Project X'"
	parts := strings.Split(queryLower, "'")
	if len(parts) >= 2 {
		return strings.Contains(nameLower, parts[1]) || strings.Contains(parts[1], "portal")
	}

	return false
}

// DownloadFile returns fixture content for the given file ID.
func (m *MockConnector) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	ctxzap.Info(ctx, "[MOCK] downloading file", zap.String("file_id", fileID))

	content, ok := mockContents[fileID]
	if !ok {
		return nil, fmt.Errorf("mock file not found: %s", fileID)
	}
	return []byte(content), nil
}

// ExportFile behaves like DownloadFile for the fixture set.
func (m *MockConnector) ExportFile(ctx context.Context, fileID string) ([]byte, error) {
	ctxzap.Info(ctx, "[MOCK] exporting file", zap.String("file_id", fileID))
	return m.DownloadFile(ctx, fileID)
}
