package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	pkgpdf "github.com/futig/proposal-backend/internal/pkg/pdf"
)

const (
	maxProcessedDocuments = 10
	maxDocumentContentLen = 10000
	fallbackProjectName   = "Unknown Project"
	rfpRelevanceScore     = 100
)

// AnalysisUsecase aggregates project context from the RFP and every related
// document found in the external store. Results are cached per RFP so repeat
// runs do not redo discovery and summarization.
type AnalysisUsecase struct {
	llm     LLMConnector
	storage StorageConnector
	scorer  *Scorer
	cache   *gocache.Cache
	workers int
	logger  *zap.Logger
}

func NewUsecase(
	llm LLMConnector,
	storage StorageConnector,
	cfg config.WorkflowConfig,
	logger *zap.Logger,
) *AnalysisUsecase {
	return &AnalysisUsecase{
		llm:     llm,
		storage: storage,
		scorer:  NewScorer(),
		cache:   gocache.New(cfg.ContextCacheTTL, 2*cfg.ContextCacheTTL),
		workers: cfg.DocumentWorkers,
		logger:  logger,
	}
}

// AnalyzeProjectDocuments builds the full project context for an RFP: project
// name, related documents with type and relevance, a generated summary, and
// the structured extraction passes.
func (uc *AnalysisUsecase) AnalyzeProjectDocuments(ctx context.Context, rfpContent, rfpFileID string) (*entity.ProjectContext, error) {
	key := contextCacheKey(rfpContent, rfpFileID)
	if cached, ok := uc.cache.Get(key); ok {
		ctxzap.Info(ctx, "project context served from cache")
		return cached.(*entity.ProjectContext), nil
	}

	ctxzap.Info(ctx, "starting project document analysis")

	projectName := uc.extractProjectName(ctx, rfpContent)

	relatedFiles := uc.findProjectDocuments(ctx, projectName, rfpFileID)
	if len(relatedFiles) > maxProcessedDocuments {
		relatedFiles = relatedFiles[:maxProcessedDocuments]
	}

	processedDocuments := uc.processDocuments(ctx, projectName, relatedFiles)

	sort.SliceStable(processedDocuments, func(i, j int) bool {
		return processedDocuments[i].RelevanceScore > processedDocuments[j].RelevanceScore
	})

	now := time.Now().UTC().Format(time.RFC3339)
	rfpID := rfpFileID
	if rfpID == "" {
		rfpID = "uploaded-rfp"
	}
	rfpDocument := entity.ProjectDocument{
		ID:       rfpID,
		Name:     "RFP Document",
		MimeType: "application/pdf",
		Content:  rfpContent,
		Metadata: entity.DocumentMetadata{
			CreatedTime:  now,
			ModifiedTime: now,
		},
		DocumentType:   entity.DocumentTypeRFP,
		RelevanceScore: rfpRelevanceScore,
	}

	projectSummary := uc.generateProjectSummary(ctx, projectName, rfpContent, processedDocuments)

	projectContext := &entity.ProjectContext{
		ProjectName:             projectName,
		RFPDocument:             rfpDocument,
		RelatedDocuments:        processedDocuments,
		TotalDocuments:          len(processedDocuments),
		ProjectSummary:          projectSummary,
		KeyRequirements:         extractKeyRequirements(processedDocuments),
		TechnicalSpecifications: extractTechnicalSpecifications(processedDocuments),
		BusinessObjectives:      extractBusinessObjectives(processedDocuments),
		Constraints:             extractConstraints(processedDocuments),
	}

	uc.cache.Set(key, projectContext, gocache.DefaultExpiration)

	ctxzap.Info(ctx, "project document analysis completed",
		zap.String("project_name", projectName),
		zap.Int("related_documents", len(processedDocuments)),
		zap.Int("key_requirements", len(projectContext.KeyRequirements)),
		zap.Int("technical_specs", len(projectContext.TechnicalSpecifications)),
	)

	return projectContext, nil
}

// extractProjectName asks the LLM for the project title. Failures degrade to
// a fixed placeholder, never to an error, since discovery can still proceed
// with the generic type queries.
func (uc *AnalysisUsecase) extractProjectName(ctx context.Context, rfpContent string) string {
	response, err := uc.llm.Complete(ctx, projectNameSystemPrompt, buildProjectNamePrompt(rfpContent))
	if err != nil {
		ctxzap.Warn(ctx, "project name extraction failed", zap.Error(err))
		return fallbackProjectName
	}

	projectName := strings.TrimSpace(response)
	projectName = strings.NewReplacer("'", "", "\"", "").Replace(projectName)
	if len(projectName) > maxProjectNameLen {
		projectName = projectName[:maxProjectNameLen]
	}
	if projectName == "" {
		return fallbackProjectName
	}

	ctxzap.Info(ctx, "project name extracted", zap.String("project_name", projectName))

	return projectName
}

// processDocuments extracts content, classifies and scores every candidate
// file. Documents are processed concurrently with a bounded worker count; the
// result keeps the discovery order before sorting by relevance.
func (uc *AnalysisUsecase) processDocuments(ctx context.Context, projectName string, files []entity.StorageFile) []entity.ProjectDocument {
	results := make([]entity.ProjectDocument, len(files))

	sem := make(chan struct{}, uc.workers)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file entity.StorageFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			content := uc.extractDocumentContent(ctx, file)

			results[i] = entity.ProjectDocument{
				ID:       file.ID,
				Name:     file.Name,
				MimeType: file.MimeType,
				Content:  content,
				Metadata: entity.DocumentMetadata{
					Size:         file.Size,
					CreatedTime:  file.CreatedTime,
					ModifiedTime: file.ModifiedTime,
					WebViewLink:  file.WebViewLink,
				},
				DocumentType:   ClassifyDocumentType(file.Name, content),
				RelevanceScore: uc.scorer.Score(projectName, file.Name, content),
			}
		}(i, file)
	}

	wg.Wait()

	return results
}

// extractDocumentContent pulls text out of a stored file based on its MIME
// type. Extraction problems are embedded as placeholder content instead of
// failing the document, so a single broken file never aborts the analysis.
func (uc *AnalysisUsecase) extractDocumentContent(ctx context.Context, file entity.StorageFile) string {
	ctxzap.Debug(ctx, "extracting document content",
		zap.String("file_name", file.Name),
		zap.String("mime_type", file.MimeType),
	)

	var content string

	switch {
	case file.MimeType == "application/pdf":
		data, err := uc.storage.DownloadFile(ctx, file.ID)
		if err != nil {
			return fmt.Sprintf("[Content extraction failed: %v]", err)
		}
		healthy, issues := pkgpdf.CheckHealth(data)
		if !healthy {
			ctxzap.Warn(ctx, "PDF health issues",
				zap.String("file_name", file.Name),
				zap.Strings("issues", issues),
			)
			return fmt.Sprintf("[PDF extraction failed: %s]", strings.Join(issues, ", "))
		}
		text, err := pkgpdf.ExtractText(data)
		if err != nil {
			return fmt.Sprintf("[PDF extraction failed: %v]", err)
		}
		content = text

	case file.MimeType == "application/vnd.google-apps.document":
		data, err := uc.storage.ExportFile(ctx, file.ID)
		if err != nil {
			return fmt.Sprintf("[Document export failed: %v]", err)
		}
		content = string(data)

	case strings.HasPrefix(file.MimeType, "text/"):
		data, err := uc.storage.DownloadFile(ctx, file.ID)
		if err != nil {
			return fmt.Sprintf("[Content extraction failed: %v]", err)
		}
		content = string(data)

	default:
		return fmt.Sprintf("[Unsupported file type: %s]", file.MimeType)
	}

	if len(content) > maxDocumentContentLen {
		content = content[:maxDocumentContentLen]
	}

	return content
}

// generateProjectSummary asks the LLM for a project summary; failures degrade
// to a short factual fallback.
func (uc *AnalysisUsecase) generateProjectSummary(ctx context.Context, projectName, rfpContent string, documents []entity.ProjectDocument) string {
	summary, err := uc.llm.Complete(ctx, summarySystemPrompt, buildSummaryPrompt(projectName, rfpContent, documents))
	if err != nil {
		ctxzap.Warn(ctx, "project summary generation failed", zap.Error(err))
		return fmt.Sprintf("Project: %s. Analysis of %d related documents completed.", projectName, len(documents))
	}

	if len(summary) > maxSummaryLen {
		summary = summary[:maxSummaryLen]
	}
	return summary
}

func contextCacheKey(rfpContent, rfpFileID string) string {
	h := sha256.New()
	h.Write([]byte(rfpContent))
	h.Write([]byte{0})
	h.Write([]byte(rfpFileID))
	return hex.EncodeToString(h.Sum(nil))
}
