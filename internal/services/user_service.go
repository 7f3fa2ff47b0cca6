package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/utils"
)

// loginRetryAttempts bounds the optimistic update loop when concurrent
// logins race on the same account row
const (
	loginRetryAttempts = 3
	loginRetryDelay    = 100 * time.Millisecond
)

// UserService manages accounts and authentication
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new customer account
func (s *UserService) Register(req *models.UserRegistration) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)

	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    utils.SanitizeString(req.FirstName),
		LastName:     utils.SanitizeString(req.LastName),
		Roles:        models.RoleSet{models.RoleCustomer},
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, roles, enabled, locked, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, 0, 0, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Roles.String(), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and records the login time
func (s *UserService) Authenticate(req *models.UserLogin) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(utils.NormalizeEmail(req.Email))
	if err != nil {
		if apperr.Is(err, apperr.KindUserNotFound) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if !user.IsActive() {
		return nil, apperr.AccessDenied("account is disabled or locked")
	}

	if err := s.RecordLogin(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// RecordLogin stamps last_login_at under optimistic locking. Concurrent
// logins on the same account bump the row version, so the update
// retries against the fresh version before giving up.
func (s *UserService) RecordLogin(userID string) error {
	for attempt := 0; attempt < loginRetryAttempts; attempt++ {
		var version int64
		err := s.db.QueryRow("SELECT version FROM users WHERE id = ?", userID).Scan(&version)
		if err == sql.ErrNoRows {
			return apperr.UserNotFound(userID)
		}
		if err != nil {
			return fmt.Errorf("failed to read user version: %w", err)
		}

		now := time.Now()
		res, err := s.db.Exec(`
			UPDATE users SET last_login_at = ?, updated_at = ?, version = version + 1
			WHERE id = ? AND version = ?`,
			now, now, userID, version)
		if err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 1 {
			return nil
		}

		time.Sleep(loginRetryDelay)
	}

	return apperr.Concurrency("login bookkeeping failed after concurrent updates")
}

// GetByID fetches a user by id
func (s *UserService) GetByID(userID string) (*models.User, error) {
	return s.getUser("id = ?", userID)
}

// GetByEmail fetches a user by email
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	return s.getUser("email = ?", email)
}

func (s *UserService) getUser(where string, arg string) (*models.User, error) {
	var user models.User
	var roles string
	var lastLogin sql.NullTime

	err := s.db.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, roles, enabled, locked, version,
		       phone, street, city, state, zip_code, country, last_login_at, created_at, updated_at
		FROM users WHERE `+where, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&roles, &user.Enabled, &user.Locked, &user.Version,
		&user.Phone, &user.Street, &user.City, &user.State, &user.ZipCode, &user.Country,
		&lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.UserNotFound(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Roles = models.ParseRoles(roles)
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update
func (s *UserService) UpdateProfile(userID string, req *models.ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	apply := func(column string, value *string) {
		if value != nil {
			setClauses = append(setClauses, column+" = ?")
			args = append(args, utils.SanitizeString(*value))
		}
	}
	apply("first_name", req.FirstName)
	apply("last_name", req.LastName)
	apply("phone", req.Phone)
	apply("street", req.Street)
	apply("city", req.City)
	apply("state", req.State)
	apply("zip_code", req.ZipCode)
	apply("country", req.Country)

	if len(setClauses) == 1 {
		return user, nil
	}

	args = append(args, userID)
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetByID(userID)
}

// GrantRole adds a role to the user's set
func (s *UserService) GrantRole(userID string, role models.Role) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Roles.Has(role) {
		return nil
	}

	roles := user.Roles.Add(role)
	_, err = s.db.Exec("UPDATE users SET roles = ?, updated_at = ? WHERE id = ?",
		roles.String(), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// SetEnabled toggles an account on or off
func (s *UserService) SetEnabled(userID string, enabled bool) error {
	res, err := s.db.Exec("UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.UserNotFound(userID)
	}
	return nil
}
