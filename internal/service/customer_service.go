package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Search(ctx context.Context, query string) ([]dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if existing, err := s.repo.FindByPhone(ctx, req.Phone); err == nil && existing != nil {
		return nil, fmt.Errorf("phone %s already registered", req.Phone)
	}
	tier := req.CustomerType
	if tier == "" {
		tier = model.TierRegular
	}
	customer := &model.Customer{
		Name:               req.Name,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		CustomerType:       tier,
		DiscountPercentage: req.DiscountPercentage,
		Active:             true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.CustomerType != nil {
		customer.CustomerType = *req.CustomerType
	}
	if req.DiscountPercentage != nil {
		customer.DiscountPercentage = *req.DiscountPercentage
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Search(ctx context.Context, query string) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Search(ctx, query, 20)
	if err != nil {
		return nil, err
	}
	return customersToResponses(customers), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return customersToResponses(customers), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCustomerNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func customersToResponses(customers []model.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	discount := c.DiscountPercentage
	if discount.IsZero() {
		discount = decimal.Zero
	}
	return &dto.CustomerResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Phone:              c.Phone,
		Email:              c.Email,
		Address:            c.Address,
		CustomerType:       c.CustomerType,
		DiscountPercentage: discount,
		Points:             c.Points,
		Active:             c.Active,
	}
}
