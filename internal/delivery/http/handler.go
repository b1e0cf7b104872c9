package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/matfynd/backend/internal/domain"
	"go.uber.org/zap"
)

const (
	serviceName    = "matfynd-backend"
	serviceVersion = "1.0.0"

	// defaultIngestSource names a catalog ingested without ?source=
	defaultIngestSource = "manual"
)

// DealsUsecase is the application surface the handlers call
type DealsUsecase interface {
	IngestHTML(ctx context.Context, source string, r io.Reader) (domain.IngestReport, error)
	ExtractHTML(ctx context.Context, r io.Reader) ([]domain.OfferRecord, domain.IngestReport, error)
	Catalog() domain.CatalogSnapshot
	MatchIngredients(ctx context.Context, ingredients []string) ([]domain.MatchResult, error)
	RecipeSavings(ctx context.Context, ingredients []string) (domain.SavingsSummary, error)
	MatchCart(ctx context.Context, lines []domain.CartLine) ([]domain.MatchResult, error)
	CompareCart(lines []domain.CartLine) domain.StoreComparison
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	deals  DealsUsecase
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil deals usecase makes every API
// endpoint answer 501.
func NewHandler(deals DealsUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{deals: deals, logger: logger}
}

// IngredientsRequest is the body of the recipe endpoints
type IngredientsRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// CartRequest is the body of the cart endpoints
type CartRequest struct {
	Lines []domain.CartLine `json:"lines" binding:"required"`
}

// MatchesResponse wraps the result of the match endpoints
type MatchesResponse struct {
	Matches []domain.MatchResult `json:"matches"`
}

// ExtractResponse is the dry-run result of an offer page
type ExtractResponse struct {
	Offers []domain.OfferRecord `json:"offers"`
	Report domain.IngestReport  `json:"report"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}
	if h.deals != nil {
		response["catalogVersion"] = h.deals.Catalog().Version
	}
	c.JSON(http.StatusOK, response)
}

// IngestOffers parses an offer page and publishes it as the new catalog
func (h *Handler) IngestOffers(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	body, ok := h.readDocument(c)
	if !ok {
		return
	}

	source := strings.TrimSpace(c.Query("source"))
	if source == "" {
		source = defaultIngestSource
	}

	report, err := h.deals.IngestHTML(c.Request.Context(), source, bytes.NewReader(body))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExtractOffers parses an offer page without publishing it
func (h *Handler) ExtractOffers(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	body, ok := h.readDocument(c)
	if !ok {
		return
	}

	offers, report, err := h.deals.ExtractHTML(c.Request.Context(), bytes.NewReader(body))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Offers: offers, Report: report})
}

// GetCatalog returns the current catalog snapshot
func (h *Handler) GetCatalog(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	c.JSON(http.StatusOK, h.deals.Catalog())
}

// MatchRecipe matches recipe ingredients against the catalog
func (h *Handler) MatchRecipe(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request IngredientsRequest
	if !h.bind(c, &request) {
		return
	}

	matches, err := h.deals.MatchIngredients(c.Request.Context(), request.Ingredients)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MatchesResponse{Matches: matches})
}

// RecipeSavings prices recipe ingredients against the catalog
func (h *Handler) RecipeSavings(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request IngredientsRequest
	if !h.bind(c, &request) {
		return
	}

	summary, err := h.deals.RecipeSavings(c.Request.Context(), request.Ingredients)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MatchCart matches cart item names against the catalog
func (h *Handler) MatchCart(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request CartRequest
	if !h.bind(c, &request) {
		return
	}

	matches, err := h.deals.MatchCart(c.Request.Context(), request.Lines)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MatchesResponse{Matches: matches})
}

// CompareCart totals the cart per store
func (h *Handler) CompareCart(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request CartRequest
	if !h.bind(c, &request) {
		return
	}

	c.JSON(http.StatusOK, h.deals.CompareCart(request.Lines))
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.deals != nil {
		return true
	}
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "deals service not configured",
	})
	return false
}

// readDocument reads the raw HTML body
func (h *Handler) readDocument(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.respondError(c, domain.ErrEmptyDocument)
		return nil, false
	}
	return body, true
}

func (h *Handler) bind(c *gin.Context, request interface{}) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.respondError(c, err)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   domain.ErrInvalidRequest.Error(),
			"details": err.Error(),
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytes):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "request body too large",
		})
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrEmptyDocument):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrNoCards):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "request cancelled",
		})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}
}
