package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/internal/customer/query"
	"github.com/walter090/customer-transactions/shared/clients"
	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/middleware"
	"github.com/walter090/customer-transactions/shared/models"
)

// CustomerCommander defines the write-side operations used by CustomerHandler.
type CustomerCommander interface {
	CreateCustomer(cqrs.CreateCustomerCommand) (*models.Customer, error)
	Transfer(cqrs.TransferCommand) (decimal.Decimal, error)
}

// CustomerQuerier defines the read-side operations used by CustomerHandler.
type CustomerQuerier interface {
	Login(cqrs.LoginCommand) (string, error)
	GetProfile(cqrs.GetProfileQuery) (*query.Profile, error)
	GetProfileByUsername(cqrs.GetProfileByUsernameQuery) (*query.Profile, error)
	GetBasic(cqrs.GetBasicQuery) (*models.CustomerBasic, error)
	LookupID(cqrs.LookupIDQuery) (string, error)
	ListCustomers(cqrs.ListCustomersQuery) ([]models.CustomerView, string, error)
}

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	commands CustomerCommander
	queries  CustomerQuerier
}

func NewCustomerHandler(commands CustomerCommander, queries CustomerQuerier) *CustomerHandler {
	return &CustomerHandler{commands: commands, queries: queries}
}

type SignupRequest struct {
	Username       string          `json:"username" validate:"required,max=50"`
	Email          string          `json:"email" validate:"required,email"`
	FirstName      string          `json:"first_name" validate:"required,max=30"`
	LastName       string          `json:"last_name" validate:"required,max=30"`
	BirthYear      int             `json:"birth_year" validate:"required"`
	OccupationType string          `json:"occupation_type"`
	Balance        decimal.Decimal `json:"balance" validate:"-"`
	Password       string          `json:"password" validate:"required,min=8,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TransferRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"-"`
}

type LookupIDRequest struct {
	Username string `json:"username" validate:"required"`
}

type ListCustomersResponse struct {
	Customers []models.CustomerView `json:"customers"`
	Next      string                `json:"next,omitempty"`
}

// Signup creates a new customer account.
func (h *CustomerHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.CreateCustomer(cqrs.CreateCustomerCommand{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BirthYear:      req.BirthYear,
		OccupationType: req.OccupationType,
		Balance:        req.Balance,
		Password:       req.Password,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer created."})
}

// Login verifies credentials and returns a bearer token.
func (h *CustomerHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(cqrs.LoginCommand{Username: req.Username, Password: req.Password})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// List returns one admin-only page of customers, ordered by last name.
func (h *CustomerHandler) List(c *gin.Context) {
	if !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "Admin access required")
		return
	}

	views, next, err := h.queries.ListCustomers(cqrs.ListCustomersQuery{Cursor: c.Query("cursor")})
	if err != nil {
		if err.Error() == "invalid cursor" {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid cursor")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, ListCustomersResponse{Customers: views, Next: next})
}

// Retrieve returns a customer profile merged with transaction info.
// Self-or-admin.
func (h *CustomerHandler) Retrieve(c *gin.Context) {
	customerID := c.Param("id")
	callerID, _ := middleware.GetCustomerID(c)
	if callerID != customerID && !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only view your own profile")
		return
	}

	profile, err := h.queries.GetProfile(cqrs.GetProfileQuery{
		CustomerID: customerID,
		Token:      c.GetHeader("Authorization"),
	})
	if err != nil {
		h.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Self returns the caller's own profile, looked up by username. Only staff or
// the named customer may call it.
func (h *CustomerHandler) Self(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "username query parameter required")
		return
	}

	callerUsername, _ := middleware.GetUsername(c)
	if callerUsername != username && !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusMethodNotAllowed, "Not allowed")
		return
	}

	profile, err := h.queries.GetProfileByUsername(cqrs.GetProfileByUsernameQuery{
		Username: username,
		Token:    c.GetHeader("Authorization"),
	})
	if err != nil {
		h.respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *CustomerHandler) respondProfileError(c *gin.Context, err error) {
	var remote *clients.RemoteError
	if errors.As(err, &remote) {
		middleware.RespondWithError(c, remote.StatusCode, "Failed to fetch transaction info")
		return
	}
	if err.Error() == "customer not found" {
		middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get customer")
}

// Basic returns the minimal customer projection used by dataset export.
func (h *CustomerHandler) Basic(c *gin.Context) {
	basic, err := h.queries.GetBasic(cqrs.GetBasicQuery{CustomerID: c.Param("id")})
	if err != nil {
		if err.Error() == "customer not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get customer")
		return
	}
	c.JSON(http.StatusOK, basic)
}

// Transfer applies a signed amount to a customer's balance. Overdrafts leave
// the balance unchanged.
func (h *CustomerHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	balance, err := h.commands.Transfer(cqrs.TransferCommand{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
	})
	if err != nil {
		switch err.Error() {
		case "customer not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
		case "account overdrawn":
			middleware.RespondWithError(c, http.StatusBadRequest, "Account overdrawn.")
		case "amount must be non-zero":
			middleware.RespondWithError(c, http.StatusBadRequest, "Amount must be non-zero")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update balance")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account balance updated.", "balance": balance})
}

// Verify confirms the caller's token is valid for the named customer.
// Reaching the handler means the token passed signature and expiry checks.
func (h *CustomerHandler) Verify(c *gin.Context) {
	customerID := c.Param("id")
	callerID, _ := middleware.GetCustomerID(c)
	if callerID != customerID && !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "Token does not match customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token verified."})
}

// VerifyAdmin confirms the caller's token carries the staff claim.
func (h *CustomerHandler) VerifyAdmin(c *gin.Context) {
	if !middleware.IsStaff(c) {
		middleware.RespondWithError(c, http.StatusForbidden, "Admin access required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token verified."})
}

// LookupID resolves a username to a customer identifier.
func (h *CustomerHandler) LookupID(c *gin.Context) {
	var req LookupIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	id, err := h.queries.LookupID(cqrs.LookupIDQuery{Username: req.Username})
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_id": id})
}
