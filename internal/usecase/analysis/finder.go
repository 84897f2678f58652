package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/entity"
)

// buildSearchQueries produces the fixed query set used to discover documents
// related to a project: exact name, full-text name, first name word, and two
// generic type queries.
func buildSearchQueries(projectName string) []string {
	firstWord := projectName
	if fields := strings.Fields(projectName); len(fields) > 0 {
		firstWord = fields[0]
	}

	return []string{
		fmt.Sprintf("name contains '%s'", projectName),
		fmt.Sprintf("fullText contains '%s'", projectName),
		fmt.Sprintf("name contains '%s'", firstWord),
		"name contains 'specification' or name contains 'requirement' or name contains 'design'",
		"name contains 'proposal' or name contains 'contract' or name contains 'scope'",
	}
}

// findProjectDocuments runs every search query and merges the results,
// deduplicating by file ID and excluding the originating RFP file. Queries run
// sequentially so the merge order is deterministic; a failed query is logged
// and skipped rather than failing the discovery.
func (uc *AnalysisUsecase) findProjectDocuments(ctx context.Context, projectName, rfpFileID string) []entity.StorageFile {
	ctxzap.Info(ctx, "searching for project documents", zap.String("project_name", projectName))

	var allFiles []entity.StorageFile
	seen := make(map[string]struct{})

	for _, query := range buildSearchQueries(projectName) {
		files, err := uc.storage.SearchFiles(ctx, query)
		if err != nil {
			ctxzap.Warn(ctx, "search query failed",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		for _, f := range files {
			if f.ID == rfpFileID {
				continue
			}
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			allFiles = append(allFiles, f)
		}
	}

	ctxzap.Info(ctx, "potential project documents found", zap.Int("file_count", len(allFiles)))

	return allFiles
}
