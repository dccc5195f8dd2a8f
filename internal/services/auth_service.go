package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/config"
	"github.com/transitlabs/metrodocs/internal/models"
)

var (
	// ErrInvalidCredentials is returned for unknown users and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("user already exists")
)

// AuthService issues and verifies JWT bearer tokens.
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

// NewAuthService creates an auth service bound to the given database.
func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Login authenticates a username/password pair and returns a signed token.
// Passwords are always verified against the stored bcrypt hash; there is no
// demo bypass of any kind.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, &user, nil
}

// Register creates a new user account and returns a token for it.
func (s *AuthService) Register(username, email, password, department string) (string, *models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return "", nil, err
	}
	if count > 0 {
		return "", nil, ErrUserExists
	}

	user := models.User{
		Username:   username,
		Email:      email,
		Role:       "user",
		Department: department,
	}
	if err := user.SetPassword(password); err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, &user, nil
}

// Verify parses a bearer token and loads the current user record.
func (s *AuthService) Verify(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token claims")
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	return &user, nil
}

func (s *AuthService) generateToken(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":         u.ID,
		"username":   u.Username,
		"role":       u.Role,
		"department": u.Department,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
