package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/pkg/logger"
	"github.com/futig/proposal-backend/internal/pkg/response"
	"github.com/futig/proposal-backend/internal/pkg/validator"
	proposaluc "github.com/futig/proposal-backend/internal/usecase/proposal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Handler struct {
	usecase   ProposalUsecase
	validator *validator.Validator
}

func NewHandler(usecase ProposalUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// GenerateProposal handles POST /proposal - Start proposal generation from raw requirements
func (h *Handler) GenerateProposal(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateProposal")

	var req entity.GenerateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := h.usecase.StartRun(ctx, &req, nil)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "proposal generation accepted",
		zap.String("run_id", run.ID),
		zap.Bool("enhanced", run.Enhanced),
	)

	h.executeAsync(ctx, run, req.CallbackURL)

	response.Accepted(w, proposaluc.ToRunDTO(run))
}

// GenerateProposalFromFile handles POST /proposal/upload - Start generation from an uploaded RFP PDF
func (h *Handler) GenerateProposalFromFile(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateProposalFromFile")

	fileName, content, ok := h.readUploadedPDF(ctx, w, r)
	if !ok {
		return
	}

	extracted, err := h.usecase.ExtractRequirements(ctx, fileName, content)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	req := entity.GenerateProposalRequest{
		Requirements: extracted.ExtractedRequirements,
		Enhanced:     r.FormValue("enhanced") == "true",
		CallbackURL:  r.FormValue("callback_url"),
	}

	run, err := h.usecase.StartRun(ctx, &req, &fileName)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "proposal generation from file accepted",
		zap.String("run_id", run.ID),
		zap.String("file_name", fileName),
		zap.Int("extracted_words", extracted.WordCount),
	)

	h.executeAsync(ctx, run, req.CallbackURL)

	response.Accepted(w, proposaluc.ToRunDTO(run))
}

// executeAsync runs the workflow in the background; the request context is
// about to be cancelled, so the goroutine gets a fresh one with the same
// logger.
func (h *Handler) executeAsync(ctx context.Context, run *entity.ProposalRun, callbackURL string) {
	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("action", "ExecuteRun-async"),
		)

		if err := h.usecase.ExecuteRun(bgCtx, run, callbackURL); err != nil {
			ctxzap.Error(bgCtx, "proposal run execution failed",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}
	}()
}

// GetRun handles GET /proposal/{id} - Get run status for polling
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("run_id", runID),
		zap.String("action", "GetRun"),
	)

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, proposaluc.ToRunDTO(run))
}

// ListRuns handles GET /proposal - List runs with pagination
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListRuns")

	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", defaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}

	runs, err := h.usecase.ListRuns(ctx, skip, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dtos := make([]*entity.RunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, proposaluc.ToRunDTO(run))
	}

	response.Success(w, dtos)
}

// GetResult handles GET /proposal/{id}/result - Get the finished proposal
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("run_id", runID),
		zap.String("action", "GetResult"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		response.Error(w, http.StatusBadRequest, "format must be one of: markdown, json, docx, pdf")
		return
	}

	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	if format == entity.FormatJSON {
		result, err := h.usecase.GetResult(ctx, runID)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}
		response.Success(w, result)
		return
	}

	data, contentType, filename, err := h.usecase.GetResultFile(ctx, runID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "proposal result rendered",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)),
	)

	response.File(w, contentType, filename, data)
}

// AnalyzeDocuments handles POST /analyze - Aggregate project context for an RFP
func (h *Handler) AnalyzeDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AnalyzeDocuments")

	var req entity.AnalyzeDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projectContext, err := h.usecase.AnalyzeDocuments(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "project documents analyzed",
		zap.String("project_name", projectContext.ProjectName),
		zap.Int("total_documents", projectContext.TotalDocuments),
	)

	response.Success(w, projectContext)
}

// ExtractRequirements handles POST /extract-rfp - Extract requirement sections from an RFP PDF
func (h *Handler) ExtractRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExtractRequirements")

	fileName, content, ok := h.readUploadedPDF(ctx, w, r)
	if !ok {
		return
	}

	extracted, err := h.usecase.ExtractRequirements(ctx, fileName, content)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, extracted)
}

// readUploadedPDF parses the multipart form and validates the "file" part.
// On failure it writes the error response and returns ok=false.
func (h *Handler) readUploadedPDF(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to parse form")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Error(ctx, "missing file in form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "file is required")
		return "", nil, false
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(header); err != nil {
		ctxzap.Error(ctx, "failed to validate uploaded file", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return "", nil, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to read uploaded file")
		return "", nil, false
	}

	return validator.SanitizeFilename(header.Filename), content, true
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	var analysisErr *entity.ProjectAnalysisError

	switch {
	case errors.Is(err, entity.ErrRunNotFound):
		response.Error(w, http.StatusNotFound, "run not found")
	case errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidPDF),
		errors.Is(err, entity.ErrEmptyDocument):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrRunNotFinished):
		response.Error(w, http.StatusConflict, "run is not finished yet")
	case errors.Is(err, entity.ErrRunFailed):
		response.Error(w, http.StatusConflict, "run has failed")
	case errors.Is(err, entity.ErrNoResult):
		response.Error(w, http.StatusConflict, "run has no result")
	case errors.As(err, &analysisErr):
		response.Error(w, http.StatusBadGateway, fmt.Sprintf("project analysis failed: %s", analysisErr.Err))
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
