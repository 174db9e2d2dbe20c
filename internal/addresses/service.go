package addresses

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
)

var pincodePattern = regexp.MustCompile(`^[0-9]{4,10}$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes address book operations scoped to the owning user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo AddressRepository
	tx   txRunner
}

// NewService builds an address service backed by the provided stack.
func NewService(repo AddressRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateInput captures the payload to save a delivery address.
type CreateInput struct {
	FullName        string
	MobileNumber    string
	LocationDetails string
	Landmark        *string
	Pincode         string
	City            string
	State           string
	DefaultAddress  bool
}

// Create validates and saves an address. Marking it default clears the
// previous default in the same transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:          userID,
		FullName:        strings.TrimSpace(input.FullName),
		MobileNumber:    strings.TrimSpace(input.MobileNumber),
		LocationDetails: strings.TrimSpace(input.LocationDetails),
		Landmark:        input.Landmark,
		Pincode:         strings.TrimSpace(input.Pincode),
		City:            strings.TrimSpace(input.City),
		State:           strings.TrimSpace(input.State),
		DefaultAddress:  input.DefaultAddress,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if address.DefaultAddress {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		_, err := txRepo.Create(ctx, address)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}

	return address, nil
}

// List returns the user's address book.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

// Get returns one address owned by the user.
func (s *service) Get(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

func validateCreateInput(input CreateInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if strings.TrimSpace(input.MobileNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "mobile number is required")
	}
	if strings.TrimSpace(input.LocationDetails) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location details are required")
	}
	if !pincodePattern.MatchString(strings.TrimSpace(input.Pincode)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "pincode must be 4 to 10 digits")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(input.State) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	return nil
}
