package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecosaarthi/models"

	"golang.org/x/crypto/bcrypt"
)

var errDuplicateEmail = fmt.Errorf("an account with this email already exists")

// SignupInput carries the raw signup form. Income arrives as a string because
// that is what the form posts; parseIncome validates it.
type SignupInput struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	Password      string `json:"password" binding:"required"`
	CurrentRole   string `json:"currentRole" binding:"required"`
	MonthlyIncome string `json:"monthlyIncome" binding:"required"`
}

// parseIncome validates a declared monthly income: numeric and non-negative.
func parseIncome(raw string) (float64, error) {
	income, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("monthly income must be a number")
	}
	if income < 0 {
		return 0, fmt.Errorf("monthly income cannot be negative")
	}
	return income, nil
}

// RegisterUser validates a signup and creates the account. The role must be a
// catalog entry; a duplicate email fails with errDuplicateEmail even when two
// signups race past the pre-check.
func RegisterUser(in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password too short (min 6)")
	}
	income, err := parseIncome(in.MonthlyIncome)
	if err != nil {
		return nil, err
	}
	var role models.Role
	if err := db.Where("name = ?", in.CurrentRole).First(&role).Error; err != nil {
		return nil, fmt.Errorf("unknown role %q", in.CurrentRole)
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errDuplicateEmail
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		Phone:          strings.TrimSpace(in.Phone),
		HashedPassword: hashed,
		CurrentRole:    role.Name,
		MonthlyIncome:  income,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the pre-check
			return nil, errDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks an email/password pair. The error never says which half
// was wrong.
func Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return &user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash
// with expiry and returns the raw token string.
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: hex.EncodeToString(h[:]),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hex.EncodeToString(h[:])).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}
