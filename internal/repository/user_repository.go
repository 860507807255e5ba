package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"discussx/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, username, display_name, email, profile_image, password_hash,
	refresh_token, refresh_token_expiry_time, created_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// create user id
	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.ProfileImage == "" {
		user.ProfileImage = models.PlaceholderProfileImage
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.RefreshTokenExpiryTime.IsZero() {
		user.RefreshTokenExpiryTime = user.CreatedAt
	}

	query := `
		INSERT INTO users (id, username, display_name, email, profile_image, password_hash,
			refresh_token, refresh_token_expiry_time, created_at)
		VALUES (:id, :username, :display_name, :email, :profile_image, :password_hash,
			:refresh_token, :refresh_token_expiry_time, :created_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *userRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var count int

	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`)

	if err := r.db.GetContext(ctx, &count, query, username, email); err != nil {
		return false, fmt.Errorf("failed to check username and email: %w", err)
	}

	return count > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID, displayName, profileImage string) error {
	query := r.db.Rebind(`
		UPDATE users
		SET display_name = ?, profile_image = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, displayName, profileImage, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// checking that the password hash is the same
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := r.db.Rebind(`
		UPDATE users
		SET refresh_token = ?, refresh_token_expiry_time = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime.UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	user, err := r.getOne(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE refresh_token = ?
		AND refresh_token_expiry_time > ?
	`, refreshToken, time.Now().UTC())
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidToken
	}

	return user, err
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, r.db.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
