package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"clausevault/middleware"
	"clausevault/model"
	"clausevault/pkg/logger"
	"clausevault/service"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	store         service.Store
	files         service.FileStore
	analyzer      *service.Analyzer
	maxUploadSize int64
}

func NewContractHandler(store service.Store, files service.FileStore, analyzer *service.Analyzer, maxUploadSize int64) *ContractHandler {
	return &ContractHandler{
		store:         store,
		files:         files,
		analyzer:      analyzer,
		maxUploadSize: maxUploadSize,
	}
}

type CreateContractRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List returns all contracts owned by the caller, newest first.
func (h *ContractHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	contracts, err := h.store.ContractsByOwner(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contracts"})
		return
	}

	if contracts == nil {
		contracts = []*model.Contract{}
	}
	c.JSON(http.StatusOK, contracts)
}

// Create stores a contract from user-supplied title and content.
func (h *ContractHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract := &model.Contract{
		Owner:   userID,
		Title:   contractTitle(req.Title, ""),
		Content: req.Content,
		Status:  model.StatusDraft,
	}

	if err := h.store.CreateContract(c.Request.Context(), contract); err != nil {
		logger.Error(c.Request.Context(), "failed to create contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// Delete removes a contract owned by the caller. Deleting a missing or
// foreign-owned id responds with success and changes nothing.
func (h *ContractHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	if err := h.store.DeleteByOwner(c.Request.Context(), id, userID); err != nil {
		logger.Error(c.Request.Context(), "failed to delete contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Upload accepts a multipart PDF/DOCX/plain-text file, extracts its text,
// persists the original bytes and creates a contract record. Extraction
// failures never fail the upload; the contract is stored with empty
// content instead.
func (h *ContractHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if service.DetectKind(mimeType, header.Filename) == service.KindUnsupported {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type (only PDF, DOCX, TXT)"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	content := service.ExtractText(ctx, data, mimeType, header.Filename)

	url, err := h.files.Save(ctx, header.Filename, data, mimeType)
	if err != nil {
		logger.Error(ctx, "failed to store upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload contract"})
		return
	}

	contract := &model.Contract{
		Owner:   userID,
		Title:   contractTitle(c.PostForm("title"), header.Filename),
		Content: content,
		Status:  model.StatusDraft,
		OriginalFile: &model.OriginalFile{
			FileName: header.Filename,
			MimeType: mimeType,
			Size:     header.Size,
			URL:      url,
		},
	}

	if err := h.store.CreateContract(ctx, contract); err != nil {
		logger.Error(ctx, "failed to create contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload contract"})
		return
	}

	logger.Info(ctx, "contract uploaded",
		"contract_id", contract.ID,
		"file", header.Filename,
		"size", header.Size,
		"extracted_chars", len(content),
	)

	c.JSON(http.StatusCreated, contract)
}

// Analyze sends the contract text to the analysis provider with the
// caller's preferred model and persists the returned insights.
func (h *ContractHandler) Analyze(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")
	ctx := c.Request.Context()

	contract, err := h.store.ContractByOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		logger.Error(ctx, "failed to load contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed"})
		return
	}

	// Preferred model comes from the caller's settings; the analyzer
	// falls back to the system default when unset.
	var preferredModel string
	if user, err := h.store.UserByID(ctx, userID); err == nil {
		preferredModel = user.AIModel
	}

	analysis, err := h.analyzer.Analyze(ctx, contract.Content, preferredModel)
	if err != nil {
		if errors.Is(err, service.ErrUpstreamNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis provider not configured"})
			return
		}
		logger.Error(ctx, "analysis request failed", "contract_id", contract.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI analysis failed"})
		return
	}

	if err := h.store.UpdateInsights(ctx, contract.ID, analysis); err != nil {
		logger.Error(ctx, "failed to persist insights", "contract_id", contract.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// contractTitle derives the stored title: explicit title, then filename
// without extension, then the default.
func contractTitle(title, filename string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if filename != "" {
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		if base != "" {
			return base
		}
	}
	return model.DefaultTitle
}
