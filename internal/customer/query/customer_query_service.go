package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/middleware"
	"github.com/walter090/customer-transactions/shared/models"
	"github.com/walter090/customer-transactions/shared/utils"
)

// CustomerReader is the store surface used by CustomerQueryService.
type CustomerReader interface {
	GetByID(customerID string) (*models.Customer, error)
	GetByUsername(username string) (*models.Customer, error)
	List(cursor string) ([]models.CustomerView, string, error)
}

// BasicReader serves the cached basic projection.
type BasicReader interface {
	Basic(ctx context.Context, customerID string) (*models.CustomerBasic, error)
}

// InfoFetcher fetches a customer's monthly aggregation from the transaction
// service, forwarding the caller's token.
type InfoFetcher interface {
	Info(ctx context.Context, customerID, token string) (json.RawMessage, error)
}

// Profile is the full customer retrieval payload: the profile fields plus the
// merged previous-month transaction info.
type Profile struct {
	models.CustomerView
	CreationDate    time.Time       `json:"creation_date"`
	Balance         decimal.Decimal `json:"balance"`
	TransactionInfo json.RawMessage `json:"transaction_info"`
}

// CustomerQueryService serves customer reads and login.
type CustomerQueryService struct {
	repo      CustomerReader
	basicRepo BasicReader
	txClient  InfoFetcher
}

func NewCustomerQueryService(repo CustomerReader, basicRepo BasicReader, txClient InfoFetcher) *CustomerQueryService {
	return &CustomerQueryService{repo: repo, basicRepo: basicRepo, txClient: txClient}
}

// Login verifies credentials and issues a signed token carrying the
// customer's identity and staff flag.
func (s *CustomerQueryService) Login(cmd cqrs.LoginCommand) (string, error) {
	customer, err := s.repo.GetByUsername(cmd.Username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if !utils.CheckPassword(cmd.Password, customer.PasswordHash) {
		return "", fmt.Errorf("invalid credentials")
	}
	return middleware.GenerateToken(customer.Identifier, customer.Username, customer.IsStaff)
}

// GetProfile returns a customer's profile merged with the transaction
// service's monthly aggregation. A remote failure is returned as-is so the
// handler can propagate the remote status.
func (s *CustomerQueryService) GetProfile(q cqrs.GetProfileQuery) (*Profile, error) {
	customer, err := s.repo.GetByID(q.CustomerID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(customer, q.Token)
}

// GetProfileByUsername is the self-profile variant.
func (s *CustomerQueryService) GetProfileByUsername(q cqrs.GetProfileByUsernameQuery) (*Profile, error) {
	customer, err := s.repo.GetByUsername(q.Username)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(customer, q.Token)
}

func (s *CustomerQueryService) buildProfile(customer *models.Customer, token string) (*Profile, error) {
	info, err := s.txClient.Info(context.Background(), customer.Identifier, token)
	if err != nil {
		return nil, err
	}
	return &Profile{
		CustomerView: models.CustomerView{
			Identifier:     customer.Identifier,
			Username:       customer.Username,
			Email:          customer.Email,
			FirstName:      customer.FirstName,
			LastName:       customer.LastName,
			BirthYear:      customer.BirthYear,
			OccupationType: customer.OccupationType,
		},
		CreationDate:    customer.CreationDate,
		Balance:         customer.Balance,
		TransactionInfo: info,
	}, nil
}

// GetBasic returns the minimal projection used by dataset export.
func (s *CustomerQueryService) GetBasic(q cqrs.GetBasicQuery) (*models.CustomerBasic, error) {
	return s.basicRepo.Basic(context.Background(), q.CustomerID)
}

// LookupID resolves a username to a customer identifier.
func (s *CustomerQueryService) LookupID(q cqrs.LookupIDQuery) (string, error) {
	customer, err := s.repo.GetByUsername(q.Username)
	if err != nil {
		return "", err
	}
	return customer.Identifier, nil
}

// ListCustomers returns one page of customers and the next cursor.
func (s *CustomerQueryService) ListCustomers(q cqrs.ListCustomersQuery) ([]models.CustomerView, string, error) {
	return s.repo.List(q.Cursor)
}
