package service

import (
	"context"
	"strings"
	"time"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/constants"
	"github.com/yi-nology/itam/pkg/validator"
	"go.uber.org/zap"
)

// SoftwareInput creates a license. Dates accept YYYY-MM-DD or RFC 3339.
type SoftwareInput struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Status         string   `json:"status"`
	ExpiryDate     string   `json:"expiry_date"`
	PurchaseDate   string   `json:"purchase_date"`
	SeatsTotal     *int     `json:"seats_total"`
	Cost           *float64 `json:"cost"`
	Currency       string   `json:"currency"`
	BillingCycle   string   `json:"billing_cycle"`
	Description    string   `json:"description"`
	VendorName     string   `json:"vendor_name"`
	DepartmentName string   `json:"department_name"`
}

// SoftwarePatch updates a license. Nil members are left unchanged.
type SoftwarePatch struct {
	Name           *string  `json:"name,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Status         *string  `json:"status,omitempty"`
	ExpiryDate     *string  `json:"expiry_date,omitempty"`
	PurchaseDate   *string  `json:"purchase_date,omitempty"`
	SeatsTotal     *int     `json:"seats_total,omitempty"`
	Cost           *float64 `json:"cost,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
	BillingCycle   *string  `json:"billing_cycle,omitempty"`
	Description    *string  `json:"description,omitempty"`
	VendorName     *string  `json:"vendor_name,omitempty"`
	DepartmentName *string  `json:"department_name,omitempty"`
}

// SoftwareMeta feeds the license form.
type SoftwareMeta struct {
	Categories    []string           `json:"categories"`
	Statuses      []string           `json:"statuses"`
	BillingCycles []string           `json:"billing_cycles"`
	Currencies    []string           `json:"currencies"`
	Vendors       []model.Vendor     `json:"vendors"`
	Departments   []model.Department `json:"departments"`
}

// AssignmentInput hands one seat to a person.
type AssignmentInput struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Notes     string `json:"notes"`
}

// ReturnInput marks an assignment returned. Clear reopens it; otherwise
// ReturnedAt is used, or the current time when empty.
type ReturnInput struct {
	ReturnedAt string `json:"returned_at"`
	Clear      bool   `json:"clear"`
}

func (s *Service) ListSoftware(ctx context.Context, status string) ([]model.SoftwareAsset, error) {
	return s.logic.ListSoftware(ctx, strings.ToUpper(strings.TrimSpace(status)))
}

func (s *Service) GetSoftware(ctx context.Context, id uint) (*model.SoftwareAsset, error) {
	return s.logic.GetSoftware(ctx, id)
}

// CreateSoftware stores a license owned by the caller.
func (s *Service) CreateSoftware(ctx context.Context, input *SoftwareInput) (*model.SoftwareAsset, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	ownerID, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	name := strings.TrimSpace(input.Name)
	category := strings.ToUpper(strings.TrimSpace(input.Category))
	if name == "" || category == "" || strings.TrimSpace(input.ExpiryDate) == "" {
		return nil, invalid("name, category and expiry_date are required")
	}
	if !constants.OneOf(category, constants.Categories) {
		return nil, invalid("unknown category: " + category)
	}
	expiry, err := parseDay(input.ExpiryDate)
	if err != nil {
		return nil, invalid("invalid expiry_date")
	}

	asset := &model.SoftwareAsset{
		Name:         name,
		Category:     category,
		Status:       defaultUpper(input.Status, constants.LicenseActive),
		ExpiryDate:   expiry,
		SeatsTotal:   input.SeatsTotal,
		Cost:         input.Cost,
		Currency:     defaultUpper(input.Currency, constants.DefaultCurrency),
		BillingCycle: defaultUpper(input.BillingCycle, constants.BillingMonthly),
		Description:  strings.TrimSpace(input.Description),
		OwnerAdminID: ownerID,
	}
	if err := checkLicenseEnums(asset.Status, asset.Currency, asset.BillingCycle); err != nil {
		return nil, err
	}
	if input.SeatsTotal != nil && *input.SeatsTotal < 0 {
		return nil, invalid("seats_total must not be negative")
	}
	if strings.TrimSpace(input.PurchaseDate) != "" {
		purchase, err := parseDay(input.PurchaseDate)
		if err != nil {
			return nil, invalid("invalid purchase_date")
		}
		asset.PurchaseDate = &purchase
	}
	if name := strings.TrimSpace(input.VendorName); name != "" {
		vendor, err := s.logic.EnsureVendor(ctx, name)
		if err != nil {
			return nil, err
		}
		asset.VendorID = &vendor.ID
	}
	if name := strings.TrimSpace(input.DepartmentName); name != "" {
		department, err := s.logic.EnsureDepartment(ctx, name)
		if err != nil {
			return nil, err
		}
		asset.DepartmentID = &department.ID
	}

	if err := s.logic.CreateSoftware(ctx, asset); err != nil {
		return nil, err
	}
	s.logger.Info("software license created", zap.Uint("id", asset.ID), zap.String("name", name))
	return s.logic.GetSoftware(ctx, asset.ID)
}

func (s *Service) UpdateSoftware(ctx context.Context, id uint, patch *SoftwarePatch) (*model.SoftwareAsset, error) {
	if patch == nil {
		return nil, invalid("input required")
	}
	current, err := s.logic.GetSoftware(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		updates["name"] = name
	}
	if patch.Category != nil {
		category := strings.ToUpper(strings.TrimSpace(*patch.Category))
		if !constants.OneOf(category, constants.Categories) {
			return nil, invalid("unknown category: " + category)
		}
		updates["category"] = category
	}
	status, currency, cycle := current.Status, current.Currency, current.BillingCycle
	if patch.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*patch.Status))
		updates["status"] = status
	}
	if patch.Currency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
		updates["currency"] = currency
	}
	if patch.BillingCycle != nil {
		cycle = strings.ToUpper(strings.TrimSpace(*patch.BillingCycle))
		updates["billing_cycle"] = cycle
	}
	if err := checkLicenseEnums(status, currency, cycle); err != nil {
		return nil, err
	}
	if patch.ExpiryDate != nil {
		expiry, err := parseDay(*patch.ExpiryDate)
		if err != nil {
			return nil, invalid("invalid expiry_date")
		}
		updates["expiry_date"] = expiry
	}
	if patch.PurchaseDate != nil {
		if strings.TrimSpace(*patch.PurchaseDate) == "" {
			updates["purchase_date"] = nil
		} else {
			purchase, err := parseDay(*patch.PurchaseDate)
			if err != nil {
				return nil, invalid("invalid purchase_date")
			}
			updates["purchase_date"] = purchase
		}
	}
	if patch.SeatsTotal != nil {
		if *patch.SeatsTotal < 0 {
			return nil, invalid("seats_total must not be negative")
		}
		updates["seats_total"] = *patch.SeatsTotal
	}
	if patch.Cost != nil {
		updates["cost"] = *patch.Cost
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.VendorName != nil {
		if name := strings.TrimSpace(*patch.VendorName); name == "" {
			updates["vendor_id"] = nil
		} else {
			vendor, err := s.logic.EnsureVendor(ctx, name)
			if err != nil {
				return nil, err
			}
			updates["vendor_id"] = vendor.ID
		}
	}
	if patch.DepartmentName != nil {
		if name := strings.TrimSpace(*patch.DepartmentName); name == "" {
			updates["department_id"] = nil
		} else {
			department, err := s.logic.EnsureDepartment(ctx, name)
			if err != nil {
				return nil, err
			}
			updates["department_id"] = department.ID
		}
	}
	if len(updates) == 0 {
		return current, nil
	}
	return s.logic.UpdateSoftware(ctx, id, updates)
}

func (s *Service) DeleteSoftware(ctx context.Context, id uint) error {
	if err := s.logic.DeleteSoftware(ctx, id); err != nil {
		return err
	}
	s.logger.Info("software license deleted", zap.Uint("id", id))
	return nil
}

func (s *Service) SoftwareMeta(ctx context.Context) (*SoftwareMeta, error) {
	vendors, err := s.logic.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.logic.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	return &SoftwareMeta{
		Categories:    constants.Categories,
		Statuses:      constants.LicenseStates,
		BillingCycles: constants.BillingCycles,
		Currencies:    constants.Currencies,
		Vendors:       vendors,
		Departments:   departments,
	}, nil
}

// CreateAssignment hands out a seat of a license the caller owns. A license
// with seats_total set refuses new assignments once every seat is taken.
func (s *Service) CreateAssignment(ctx context.Context, assetID uint, input *AssignmentInput) (*model.AssetAssignment, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	ownerID, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	asset, err := s.logic.OwnedSoftware(ctx, assetID, ownerID)
	if err != nil {
		return nil, err
	}
	userName := strings.TrimSpace(input.UserName)
	userEmail := strings.TrimSpace(input.UserEmail)
	if userName == "" {
		return nil, invalid("user_name is required")
	}
	if !validator.ValidateEmail(userEmail) {
		return nil, invalid("valid user_email is required")
	}
	if asset.SeatsTotal != nil {
		active, err := s.logic.CountActiveAssignments(ctx, asset.ID)
		if err != nil {
			return nil, err
		}
		if active >= int64(*asset.SeatsTotal) {
			return nil, ErrNoSeatsAvailable
		}
	}

	assignment := &model.AssetAssignment{
		AssetID:    asset.ID,
		UserName:   userName,
		UserEmail:  userEmail,
		Notes:      strings.TrimSpace(input.Notes),
		AssignedAt: s.now(),
	}
	if err := s.logic.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ReturnAssignment sets or clears returned_at on an assignment of a license the caller owns.
func (s *Service) ReturnAssignment(ctx context.Context, assetID, assignmentID uint, input *ReturnInput) (*model.AssetAssignment, error) {
	ownerID, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	if _, err := s.logic.OwnedSoftware(ctx, assetID, ownerID); err != nil {
		return nil, err
	}
	if input == nil {
		input = &ReturnInput{}
	}
	var returnedAt *time.Time
	switch {
	case input.Clear:
	case strings.TrimSpace(input.ReturnedAt) != "":
		t, err := parseTimestamp(input.ReturnedAt)
		if err != nil {
			return nil, invalid("invalid returned_at")
		}
		returnedAt = &t
	default:
		now := s.now()
		returnedAt = &now
	}
	return s.logic.SetAssignmentReturned(ctx, assetID, assignmentID, returnedAt)
}

func checkLicenseEnums(status, currency, cycle string) error {
	if !constants.OneOf(status, constants.LicenseStates) {
		return invalid("unknown status: " + status)
	}
	if !constants.OneOf(currency, constants.Currencies) {
		return invalid("unknown currency: " + currency)
	}
	if !constants.OneOf(cycle, constants.BillingCycles) {
		return invalid("unknown billing_cycle: " + cycle)
	}
	return nil
}

func defaultUpper(v, def string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

// parseDay reads a calendar date and returns local midnight of that day.
func parseDay(raw string) (time.Time, error) {
	t, err := parseTimestamp(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(catalog.DateLayout, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
