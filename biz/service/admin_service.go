package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/constants"
	"github.com/yi-nology/itam/pkg/validator"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// --------------------- Account operations ---------------------

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string            `json:"token"`
	Principal *common.Principal `json:"admin"`
}

// Login verifies credentials and issues an access token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	if s.tokens == nil {
		return nil, auth.ErrMissingSecret
	}
	admin, err := s.logic.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}

	principal := principalOf(admin)
	token, err := s.tokens.Issue(*principal)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login succeeded", zap.String("username", username), zap.Uint("admin_id", admin.ID))
	return &LoginResult{Token: token, Principal: principal}, nil
}

// Me returns the current account as stored, so role changes show up before the token expires.
func (s *Service) Me(ctx context.Context) (*model.Admin, error) {
	id, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	return s.logic.GetAdmin(ctx, id)
}

// Authorize re-reads the admin and checks one permission. A missing admin
// yields ErrAdminNotFound, an inactive one ErrAdminInactive. SUPER_ADMIN
// holds every permission; ADMIN needs a grant or gets ErrForbidden.
func (s *Service) Authorize(ctx context.Context, adminID uint, permission string) error {
	admin, err := s.activeAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.Role == constants.RoleSuperAdmin {
		return nil
	}
	ok, err := s.logic.HasPermission(ctx, adminID, permission)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// AuthorizeSuperAdmin passes only active SUPER_ADMIN accounts.
func (s *Service) AuthorizeSuperAdmin(ctx context.Context, adminID uint) error {
	admin, err := s.activeAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.Role != constants.RoleSuperAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *Service) activeAdmin(ctx context.Context, adminID uint) (*model.Admin, error) {
	admin, err := s.logic.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}
	return admin, nil
}

// --------------------- Admin management ---------------------

// AdminInput creates an account.
type AdminInput struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AdminPatch updates role, activity or password. Nil members are left unchanged.
type AdminPatch struct {
	Role        *string `json:"role,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

func (s *Service) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.logic.ListAdmins(ctx)
}

func (s *Service) CreateAdmin(ctx context.Context, input *AdminInput) (*model.Admin, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if username == "" || input.Password == "" || name == "" || email == "" {
		return nil, invalid("username, password, name and email are required")
	}
	if !validator.ValidateEmail(email) {
		return nil, invalid("invalid email")
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalid("password must be at least 8 characters")
	}
	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role == "" {
		role = constants.RoleAdmin
	}
	if role != constants.RoleAdmin && role != constants.RoleSuperAdmin {
		return nil, invalid("role must be ADMIN or SUPER_ADMIN")
	}
	permissions, err := normalizePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        email,
		Role:         role,
		IsActive:     true,
	}
	for _, p := range permissions {
		admin.Permissions = append(admin.Permissions, model.AdminPermissionGrant{Permission: p})
	}
	if err := s.logic.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("admin created", zap.String("username", username), zap.String("role", role))
	return s.logic.GetAdmin(ctx, admin.ID)
}

// UpdateAdmin changes another account. Callers may not change their own role
// or activity; resetting their own password is allowed.
func (s *Service) UpdateAdmin(ctx context.Context, id uint, patch *AdminPatch) (*model.Admin, error) {
	if patch == nil {
		return nil, invalid("input required")
	}
	if self, ok := common.AdminIDFromContext(ctx); ok && self == id && (patch.Role != nil || patch.IsActive != nil) {
		return nil, invalid("cannot change role or active state of your own account")
	}
	updates := map[string]interface{}{}
	if patch.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*patch.Role))
		if role != constants.RoleAdmin && role != constants.RoleSuperAdmin {
			return nil, invalid("role must be ADMIN or SUPER_ADMIN")
		}
		updates["role"] = role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.NewPassword != nil {
		pw := strings.TrimSpace(*patch.NewPassword)
		if len(pw) < minPasswordLength {
			return nil, invalid("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return s.logic.GetAdmin(ctx, id)
	}
	return s.logic.UpdateAdmin(ctx, id, updates)
}

// SetPermission grants or revokes one permission and returns the resulting set.
func (s *Service) SetPermission(ctx context.Context, id uint, permission string, enabled bool) ([]string, error) {
	permission = strings.ToUpper(strings.TrimSpace(permission))
	if !constants.IsPermission(permission) {
		return nil, invalid("unknown permission: " + permission)
	}
	admin, err := s.logic.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	for _, g := range admin.Permissions {
		set[g.Permission] = true
	}
	if enabled {
		set[permission] = true
	} else {
		delete(set, permission)
	}
	result := make([]string, 0, len(set))
	for p := range set {
		result = append(result, p)
	}
	sort.Strings(result)
	if err := s.logic.ReplacePermissions(ctx, id, result); err != nil {
		return nil, err
	}
	return result, nil
}

func normalizePermissions(in []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.ToUpper(strings.TrimSpace(p))
		if !constants.IsPermission(p) {
			return nil, invalid("unknown permission: " + p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func principalOf(admin *model.Admin) *common.Principal {
	return &common.Principal{
		AdminID:  admin.ID,
		Username: admin.Username,
		Name:     admin.Name,
		Role:     admin.Role,
	}
}
