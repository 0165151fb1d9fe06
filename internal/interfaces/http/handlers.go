package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/shop-ledger/internal/application/service"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/pkg/utils"
)

// CommandService parses and stores utterances
type CommandService interface {
	Parse(ctx context.Context, text string, commit bool) (*service.ParseOutcome, error)
	Confirm(ctx context.Context, result entity.ParsedResult) (*service.Receipt, error)
}

// PriceCatalog reads and writes catalog prices
type PriceCatalog interface {
	SetPrice(ctx context.Context, item string, price float64, unit string) (*entity.CatalogPrice, error)
	Search(ctx context.Context, fragment string) ([]*entity.CatalogPrice, error)
	List(ctx context.Context) ([]*entity.CatalogPrice, error)
}

// LedgerService answers ledger queries
type LedgerService interface {
	Batch(ctx context.Context, batchID string) ([]*entity.LedgerEntry, error)
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
	Order(ctx context.Context, orderID string) (*entity.Order, error)
	Balance(ctx context.Context, customer string) (*entity.CustomerBalance, error)
	CreditHistory(ctx context.Context, customer string) ([]*entity.CreditRecord, error)
	Export(ctx context.Context, w io.Writer, batchID string) error
	ExportFormat() (contentType string, extension string)
}

// Pinger reports storage health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	commands CommandService
	catalog  PriceCatalog
	ledger   LedgerService
	db       Pinger
	version  string
	logger   Logger
}

// NewHandlers creates a new Handlers instance. db may be nil.
func NewHandlers(
	commands CommandService,
	catalog PriceCatalog,
	ledger LedgerService,
	db Pinger,
	version string,
	logger Logger,
) *Handlers {
	return &Handlers{
		commands: commands,
		catalog:  catalog,
		ledger:   ledger,
		db:       db,
		version:  version,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ParseRequest is the body of POST /api/v1/commands/parse
type ParseRequest struct {
	Text   string `json:"text"`
	Commit bool   `json:"commit"`
}

// SetPriceRequest is the body of PUT /api/v1/prices
type SetPriceRequest struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

// DeleteBatchResponse reports how many entries a delete removed
type DeleteBatchResponse struct {
	BatchID string `json:"batch_id"`
	Deleted int64  `json:"deleted"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBatchNotFound), errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNothingToConfirm),
		errors.Is(err, service.ErrInvalidEntry),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrUnknownCommand):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handlers) serviceError(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "operation", op, "error", err)
		fail(c, status, "internal error")
		return
	}
	fail(c, status, err.Error())
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	}

	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			h.logger.Error("Database ping failed", "error", err)
			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: resp, Error: "database unreachable"})
			return
		}
	}

	ok(c, http.StatusOK, resp)
}

// ParseCommand handles POST /api/v1/commands/parse
func (h *Handlers) ParseCommand(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	text := utils.SanitizeString(req.Text)
	if err := utils.ValidateUtterance(text); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.commands.Parse(c.Request.Context(), text, req.Commit)
	if err != nil {
		h.serviceError(c, "parse", err)
		return
	}
	ok(c, http.StatusOK, outcome)
}

// ConfirmCommand handles POST /api/v1/commands/confirm with a reviewed ParsedResult
func (h *Handlers) ConfirmCommand(c *gin.Context) {
	var result entity.ParsedResult
	if err := c.ShouldBindJSON(&result); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.commands.Confirm(c.Request.Context(), result)
	if err != nil {
		h.serviceError(c, "confirm", err)
		return
	}
	ok(c, http.StatusCreated, receipt)
}

// ListPrices handles GET /api/v1/prices, filtered by ?item=
func (h *Handlers) ListPrices(c *gin.Context) {
	var prices []*entity.CatalogPrice
	var err error
	if item := strings.TrimSpace(c.Query("item")); item != "" {
		prices, err = h.catalog.Search(c.Request.Context(), item)
	} else {
		prices, err = h.catalog.List(c.Request.Context())
	}
	if err != nil {
		h.serviceError(c, "list prices", err)
		return
	}
	if prices == nil {
		prices = []*entity.CatalogPrice{}
	}
	ok(c, http.StatusOK, prices)
}

// SetPrice handles PUT /api/v1/prices
func (h *Handlers) SetPrice(c *gin.Context) {
	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateName(req.Item); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePrice(req.Price); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	price, err := h.catalog.SetPrice(c.Request.Context(), utils.SanitizeString(req.Item), req.Price, req.Unit)
	if err != nil {
		h.serviceError(c, "set price", err)
		return
	}
	ok(c, http.StatusOK, price)
}

// GetBatch handles GET /api/v1/batches/:id
func (h *Handlers) GetBatch(c *gin.Context) {
	entries, err := h.ledger.Batch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, "get batch", err)
		return
	}
	ok(c, http.StatusOK, entries)
}

// DeleteBatch handles DELETE /api/v1/batches/:id
func (h *Handlers) DeleteBatch(c *gin.Context) {
	batchID := c.Param("id")
	n, err := h.ledger.DeleteBatch(c.Request.Context(), batchID)
	if err != nil {
		h.serviceError(c, "delete batch", err)
		return
	}
	ok(c, http.StatusOK, DeleteBatchResponse{BatchID: batchID, Deleted: n})
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.ledger.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, "get order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

// GetBalance handles GET /api/v1/customers/:name/balance
func (h *Handlers) GetBalance(c *gin.Context) {
	balance, err := h.ledger.Balance(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.serviceError(c, "balance", err)
		return
	}
	ok(c, http.StatusOK, balance)
}

// GetCreditHistory handles GET /api/v1/customers/:name/credit
func (h *Handlers) GetCreditHistory(c *gin.Context) {
	records, err := h.ledger.CreditHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.serviceError(c, "credit history", err)
		return
	}
	if records == nil {
		records = []*entity.CreditRecord{}
	}
	ok(c, http.StatusOK, records)
}

// ExportEntries handles GET /api/v1/entries/export, optionally for ?batch_id=
func (h *Handlers) ExportEntries(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.ledger.Export(c.Request.Context(), &buf, c.Query("batch_id")); err != nil {
		h.serviceError(c, "export", err)
		return
	}

	contentType, ext := h.ledger.ExportFormat()
	filename := "ledger-" + time.Now().Format("20060102") + ext
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
