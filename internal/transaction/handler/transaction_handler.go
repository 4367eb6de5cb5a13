package handler

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/clients"
	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/middleware"
	"github.com/walter090/customer-transactions/shared/models"
)

// TransactionCommander defines the write-side operations used by
// TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// TransactionQuerier defines the read-side operations used by
// TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, string, error)
	Info(cqrs.TransactionInfoQuery) (*models.TransactionInfo, error)
	Dataset(cqrs.DatasetQuery) ([][]string, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

type CreateTransactionRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"-"`
	Category       string          `json:"category" validate:"required"`
	TransferMethod string          `json:"transfer_method" validate:"required"`
}

type InfoRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
	Next         string                   `json:"next,omitempty"`
}

// CreateTransaction appends a ledger entry. The balance adjustment on the
// customer service is attempted strictly before the entry is committed; a
// remote rejection propagates the remote status code to the caller.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.CreateTransaction(cqrs.CreateTransactionCommand{
		CustomerID:     req.CustomerID,
		Amount:         req.Amount,
		Category:       req.Category,
		TransferMethod: req.TransferMethod,
		Token:          c.GetHeader("Authorization"),
	})
	if err != nil {
		var remote *clients.RemoteError
		if errors.As(err, &remote) {
			middleware.RespondWithError(c, remote.StatusCode, remote.Message)
			return
		}
		switch err.Error() {
		case "amount must be non-zero", "invalid customer identifier", "invalid category", "invalid transfer method":
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction made."})
}

// ListTransactions returns one admin-only page of the ledger, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	if !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "Admin access required")
		return
	}

	views, next, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{Cursor: c.Query("cursor")})
	if err != nil {
		if err.Error() == "invalid cursor" {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid cursor")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views, Next: next})
}

// Info returns a customer's previous-month aggregation. Self-or-admin.
func (h *TransactionHandler) Info(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	callerID, _ := middleware.GetCustomerID(c)
	if callerID != req.CustomerID && !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only view your own transactions")
		return
	}

	info, err := h.queries.Info(cqrs.TransactionInfoQuery{CustomerID: req.CustomerID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to aggregate transactions")
		return
	}
	if info == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Customer has not made any transactions last month."})
		return
	}
	c.JSON(http.StatusOK, info)
}

// Dataset streams a month window of the ledger joined with customer
// attributes as CSV. A failed customer lookup aborts the whole export.
func (h *TransactionHandler) Dataset(c *gin.Context) {
	rewind, err := strconv.Atoi(c.Query("rewind"))
	if err != nil {
		rewind = 1
	}

	rows, err := h.queries.Dataset(cqrs.DatasetQuery{
		RewindMonths: rewind,
		Token:        c.GetHeader("Authorization"),
	})
	if err != nil {
		var remote *clients.RemoteError
		if errors.As(err, &remote) {
			middleware.RespondWithError(c, http.StatusMethodNotAllowed, "Not authorized")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to build dataset")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="dataset.csv"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.WriteAll(rows)
}

// RejectMutation refuses any update or delete on the ledger. Transactions
// are append-only regardless of caller identity.
func (h *TransactionHandler) RejectMutation(c *gin.Context) {
	middleware.RespondWithError(c, http.StatusBadRequest,
		c.Request.Method+" action not allowed on transactions")
}
