package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
)

type stubLLM struct {
	calls    int32
	complete func(systemPrompt, userPrompt string) (string, error)
}

func (s *stubLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.complete(systemPrompt, userPrompt)
}

type stubStorage struct {
	search   func(query string) ([]entity.StorageFile, error)
	download func(fileID string) ([]byte, error)
	export   func(fileID string) ([]byte, error)
}

func (s *stubStorage) SearchFiles(_ context.Context, query string) ([]entity.StorageFile, error) {
	return s.search(query)
}

func (s *stubStorage) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	if s.download == nil {
		return nil, errors.New("download not supported")
	}
	return s.download(fileID)
}

func (s *stubStorage) ExportFile(_ context.Context, fileID string) ([]byte, error) {
	if s.export == nil {
		return nil, errors.New("export not supported")
	}
	return s.export(fileID)
}

func testConfig() config.WorkflowConfig {
	return config.WorkflowConfig{
		ContextCacheTTL: time.Minute,
		DocumentWorkers: 4,
	}
}

func namedLLM(name string) *stubLLM {
	return &stubLLM{
		complete: func(_, userPrompt string) (string, error) {
			if strings.Contains(userPrompt, "extract the project name") {
				return name, nil
			}
			return "generated summary", nil
		},
	}
}

func textFile(id, name string) entity.StorageFile {
	return entity.StorageFile{
		ID:       id,
		Name:     name,
		MimeType: "text/plain",
	}
}

func TestClassifyDocumentType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		want     entity.DocumentType
	}{
		{"rfp by name", "Acme RFP 2024.pdf", "", entity.DocumentTypeRFP},
		{"request for proposal phrase", "request for proposal - portal.docx", "", entity.DocumentTypeRFP},
		{"spec by name", "portal-spec.txt", "", entity.DocumentTypeSpecification},
		{"spec by content", "notes.txt", "see the technical specification attached", entity.DocumentTypeSpecification},
		{"requirement by name", "Requirements v3.txt", "", entity.DocumentTypeRequirement},
		{"requirement by content", "notes.txt", "the requirements are listed below", entity.DocumentTypeRequirement},
		{"design by name", "architecture-overview.md", "", entity.DocumentTypeDesign},
		{"design by content", "misc.txt", "this covers the system design", entity.DocumentTypeDesign},
		{"contract by name", "Service Agreement.pdf", "", entity.DocumentTypeContract},
		{"proposal by name", "old proposal.pdf", "", entity.DocumentTypeProposal},
		{"other", "holiday-photos.zip", "nothing relevant", entity.DocumentTypeOther},
		{"case insensitive", "PORTAL SPEC.TXT", "", entity.DocumentTypeSpecification},
		{"rfp wins over spec", "RFP specification.pdf", "", entity.DocumentTypeRFP},
		{"spec wins over requirement", "spec-and-requirements.txt", "requirements", entity.DocumentTypeSpecification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDocumentType(tt.fileName, tt.content))
		})
	}
}

func TestScorerScore(t *testing.T) {
	noJitter := NewScorerWithRand(func() float64 { return 0 })

	t.Run("name and content matches", func(t *testing.T) {
		// "portal" in name (+10) and content (+5), "redesign" in content (+5),
		// keyword "specification" in name (+8) and content (+3).
		score := noJitter.Score(
			"Portal Redesign",
			"portal specification.txt",
			"specification for the portal redesign",
		)
		assert.InDelta(t, 31.0, score, 0.001)
	})

	t.Run("no matches", func(t *testing.T) {
		score := noJitter.Score("Portal Redesign", "photos.zip", "vacation pictures")
		assert.Zero(t, score)
	})

	t.Run("jitter stays below five", func(t *testing.T) {
		jittery := NewScorerWithRand(func() float64 { return 0.999 })
		score := jittery.Score("Portal", "photos.zip", "nothing")
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 5.0)
	})

	t.Run("capped at 100", func(t *testing.T) {
		// Many repeated keyword hits push the raw sum far above the cap.
		name := "specification requirement design scope objective deliverable milestone budget timeline portal redesign program"
		content := name
		score := noJitter.Score("portal redesign program", name, content)
		assert.Equal(t, 100.0, score)
	})
}

func TestBuildSearchQueries(t *testing.T) {
	queries := buildSearchQueries("Portal Redesign")

	require.Len(t, queries, 5)
	assert.Equal(t, "name contains 'Portal Redesign'", queries[0])
	assert.Equal(t, "fullText contains 'Portal Redesign'", queries[1])
	assert.Equal(t, "name contains 'Portal'", queries[2])
	assert.Contains(t, queries[3], "specification")
	assert.Contains(t, queries[4], "proposal")
}

func TestFindProjectDocumentsDedupeAndPartialFailure(t *testing.T) {
	var queries []string
	storage := &stubStorage{
		search: func(query string) ([]entity.StorageFile, error) {
			queries = append(queries, query)
			switch len(queries) {
			case 1:
				return []entity.StorageFile{textFile("a", "spec.txt"), textFile("rfp-id", "rfp.pdf")}, nil
			case 2:
				return nil, errors.New("backend timeout")
			case 3:
				return []entity.StorageFile{textFile("a", "spec.txt"), textFile("b", "design.txt")}, nil
			default:
				return nil, nil
			}
		},
	}

	uc := NewUsecase(namedLLM("Portal"), storage, testConfig(), zap.NewNop())

	files := uc.findProjectDocuments(context.Background(), "Portal", "rfp-id")

	require.Len(t, queries, 5, "a failed query does not stop the remaining ones")
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].ID)
	assert.Equal(t, "b", files[1].ID, "duplicate IDs and the RFP file are dropped")
}

func TestAnalyzeProjectDocuments(t *testing.T) {
	files := []entity.StorageFile{
		textFile("spec", "Portal Specification.txt"),
		textFile("req", "Portal Requirements.txt"),
		textFile("misc", "Notes.txt"),
	}
	contents := map[string]string{
		"spec": "Technical specification.\nThe platform architecture must scale.\nRequirement: the system shall support SSO.",
		"req":  "The system must handle load.\nObjective: improve adoption.\nBudget constraint: fixed price.",
		"misc": "Unrelated notes.",
	}

	storage := &stubStorage{
		search: func(query string) ([]entity.StorageFile, error) {
			if strings.HasPrefix(query, "name contains 'Portal'") {
				return files, nil
			}
			return nil, nil
		},
		download: func(fileID string) ([]byte, error) {
			return []byte(contents[fileID]), nil
		},
	}

	uc := NewUsecase(namedLLM("Portal"), storage, testConfig(), zap.NewNop())
	uc.scorer = NewScorerWithRand(func() float64 { return 0 })

	pc, err := uc.AnalyzeProjectDocuments(context.Background(), "build the portal per requirements", "")
	require.NoError(t, err)

	assert.Equal(t, "Portal", pc.ProjectName)
	assert.Equal(t, 3, pc.TotalDocuments)
	require.Len(t, pc.RelatedDocuments, 3)

	// Sorted by relevance descending.
	for i := 1; i < len(pc.RelatedDocuments); i++ {
		assert.GreaterOrEqual(t,
			pc.RelatedDocuments[i-1].RelevanceScore,
			pc.RelatedDocuments[i].RelevanceScore,
		)
	}

	assert.Equal(t, entity.DocumentTypeRFP, pc.RFPDocument.DocumentType)
	assert.Equal(t, float64(100), pc.RFPDocument.RelevanceScore)
	assert.Equal(t, "uploaded-rfp", pc.RFPDocument.ID)

	assert.Equal(t, "generated summary", pc.ProjectSummary)
	assert.NotEmpty(t, pc.KeyRequirements)
	assert.NotEmpty(t, pc.BusinessObjectives)
	assert.NotEmpty(t, pc.Constraints)
}

func TestAnalyzeProjectDocumentsCaching(t *testing.T) {
	llm := namedLLM("Portal")
	searches := int32(0)
	storage := &stubStorage{
		search: func(string) ([]entity.StorageFile, error) {
			atomic.AddInt32(&searches, 1)
			return nil, nil
		},
	}

	uc := NewUsecase(llm, storage, testConfig(), zap.NewNop())

	first, err := uc.AnalyzeProjectDocuments(context.Background(), "same rfp", "file-1")
	require.NoError(t, err)

	llmCallsAfterFirst := atomic.LoadInt32(&llm.calls)
	searchesAfterFirst := atomic.LoadInt32(&searches)

	second, err := uc.AnalyzeProjectDocuments(context.Background(), "same rfp", "file-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, llmCallsAfterFirst, atomic.LoadInt32(&llm.calls), "cached run makes no LLM calls")
	assert.Equal(t, searchesAfterFirst, atomic.LoadInt32(&searches), "cached run makes no searches")

	// Different RFP misses the cache.
	_, err = uc.AnalyzeProjectDocuments(context.Background(), "other rfp", "file-1")
	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt32(&searches), searchesAfterFirst)
}

func TestAnalyzeProjectDocumentsNameFallback(t *testing.T) {
	llm := &stubLLM{
		complete: func(_, userPrompt string) (string, error) {
			if strings.Contains(userPrompt, "extract the project name") {
				return "", errors.New("llm down")
			}
			return "summary", nil
		},
	}
	storage := &stubStorage{
		search: func(string) ([]entity.StorageFile, error) { return nil, nil },
	}

	uc := NewUsecase(llm, storage, testConfig(), zap.NewNop())

	pc, err := uc.AnalyzeProjectDocuments(context.Background(), "rfp text", "")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Project", pc.ProjectName)
}

func TestAnalyzeProjectDocumentsSummaryFallback(t *testing.T) {
	llm := &stubLLM{
		complete: func(_, userPrompt string) (string, error) {
			if strings.Contains(userPrompt, "extract the project name") {
				return "Portal", nil
			}
			return "", errors.New("llm overloaded")
		},
	}
	storage := &stubStorage{
		search: func(string) ([]entity.StorageFile, error) { return nil, nil },
	}

	uc := NewUsecase(llm, storage, testConfig(), zap.NewNop())

	pc, err := uc.AnalyzeProjectDocuments(context.Background(), "rfp text", "")
	require.NoError(t, err)
	assert.Equal(t, "Project: Portal. Analysis of 0 related documents completed.", pc.ProjectSummary)
}

func TestAnalyzeProjectDocumentsCapsAtTen(t *testing.T) {
	var files []entity.StorageFile
	for i := 0; i < 15; i++ {
		files = append(files, textFile(fmt.Sprintf("f%d", i), fmt.Sprintf("Portal doc %d.txt", i)))
	}

	storage := &stubStorage{
		search: func(query string) ([]entity.StorageFile, error) {
			if strings.HasPrefix(query, "name contains 'Portal'") {
				return files, nil
			}
			return nil, nil
		},
		download: func(string) ([]byte, error) { return []byte("content"), nil },
	}

	uc := NewUsecase(namedLLM("Portal"), storage, testConfig(), zap.NewNop())

	pc, err := uc.AnalyzeProjectDocuments(context.Background(), "rfp", "")
	require.NoError(t, err)
	assert.Len(t, pc.RelatedDocuments, 10)
	assert.Equal(t, 10, pc.TotalDocuments)
}

func TestExtractDocumentContentUnsupportedType(t *testing.T) {
	uc := NewUsecase(namedLLM("Portal"), &stubStorage{}, testConfig(), zap.NewNop())

	content := uc.extractDocumentContent(context.Background(), entity.StorageFile{
		ID:       "x",
		Name:     "sheet.xlsx",
		MimeType: "application/vnd.ms-excel",
	})
	assert.Equal(t, "[Unsupported file type: application/vnd.ms-excel]", content)
}

func TestExtractDocumentContentDownloadFailure(t *testing.T) {
	storage := &stubStorage{
		search:   func(string) ([]entity.StorageFile, error) { return nil, nil },
		download: func(string) ([]byte, error) { return nil, errors.New("gone") },
	}
	uc := NewUsecase(namedLLM("Portal"), storage, testConfig(), zap.NewNop())

	content := uc.extractDocumentContent(context.Background(), textFile("x", "doc.txt"))
	assert.Contains(t, content, "[Content extraction failed:")
}

func TestExtractDocumentContentCapsLength(t *testing.T) {
	long := strings.Repeat("a", 20000)
	storage := &stubStorage{
		download: func(string) ([]byte, error) { return []byte(long), nil },
	}
	uc := NewUsecase(namedLLM("Portal"), storage, testConfig(), zap.NewNop())

	content := uc.extractDocumentContent(context.Background(), textFile("x", "doc.txt"))
	assert.Len(t, content, 10000)
}

func TestExtractionPasses(t *testing.T) {
	docs := []entity.ProjectDocument{
		{
			Name:         "spec.txt",
			DocumentType: entity.DocumentTypeSpecification,
			Content: "The system shall authenticate users.\n" +
				"Requirement: data must be encrypted.\n" +
				"The chosen technology is cloud native.\n" +
				"Objective: reduce costs.\n" +
				"Budget: capped at fixed price.",
		},
		{
			Name:         "notes.txt",
			DocumentType: entity.DocumentTypeOther,
			Content: "Goal: launch by spring.\n" +
				"Deadline: end of Q2.",
		},
	}

	reqs := extractKeyRequirements(docs)
	require.NotEmpty(t, reqs)
	assert.Contains(t, reqs, "The system shall authenticate users.")
	assert.Contains(t, reqs, "Requirement: data must be encrypted.")

	specs := extractTechnicalSpecifications(docs)
	require.Len(t, specs, 1)
	assert.Contains(t, specs[0], "From spec.txt:")

	objectives := extractBusinessObjectives(docs)
	assert.Contains(t, objectives, "Objective: reduce costs.")
	assert.Contains(t, objectives, "Goal: launch by spring.")

	constraints := extractConstraints(docs)
	assert.Contains(t, constraints, "Budget: capped at fixed price.")
	assert.Contains(t, constraints, "Deadline: end of Q2.")
}

func TestExtractionCaps(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("Requirement %d: the system shall do thing %d.", i, i))
	}
	doc := entity.ProjectDocument{
		Name:         "reqs.txt",
		DocumentType: entity.DocumentTypeRequirement,
		Content:      strings.Join(lines, "\n"),
	}

	assert.Len(t, extractKeyRequirements([]entity.ProjectDocument{doc}), 10)
}

func TestBuildEnrichedPrompt(t *testing.T) {
	pc := &entity.ProjectContext{
		ProjectName:             "Portal",
		TotalDocuments:          2,
		ProjectSummary:          "A portal project.",
		KeyRequirements:         []string{"must scale"},
		TechnicalSpecifications: []string{"From spec.txt: cloud"},
		BusinessObjectives:      []string{"reduce costs"},
		Constraints:             []string{"fixed budget"},
		RelatedDocuments: []entity.ProjectDocument{
			{Name: "spec.txt", DocumentType: entity.DocumentTypeSpecification, RelevanceScore: 42.5},
		},
	}

	prompt := BuildEnrichedPrompt(pc, "original requirements text")

	assert.Contains(t, prompt, "Project Name: Portal")
	assert.Contains(t, prompt, "Related Documents Analyzed: 2")
	assert.Contains(t, prompt, "• must scale")
	assert.Contains(t, prompt, "• reduce costs")
	assert.Contains(t, prompt, "- spec.txt (specification) - Relevance: 42.5/100")
	assert.Contains(t, prompt, "original requirements text")
}
