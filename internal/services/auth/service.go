package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	"github.com/maroso-log/devtrack/internal/utils"
)

// ErrInvalidCredentials is returned for any failed login, without
// distinguishing unknown user from wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates operators against the USUARIOS tab and issues
// JWT session tokens. The user base lives in the spreadsheet like
// everything else; an unreachable backend reads as an empty user base
// and every login fails.
type Service struct {
	reader sheetdb.Reader
	secret string
}

// NewService creates the auth service.
func NewService(reader sheetdb.Reader, jwtSecret string) *Service {
	return &Service{reader: reader, secret: jwtSecret}
}

// Authenticate verifies a username/password pair against the user tab.
func (s *Service) Authenticate(username, password string) (models.User, error) {
	rows := s.reader.Load(sheetdb.TableUsers)
	for _, row := range rows {
		user := models.UserFromRow(row)
		if user.Username == "" || user.Username != username {
			continue
		}
		if utils.CheckPassword(password, user.Password) {
			return user, nil
		}
		break
	}
	return models.User{}, ErrInvalidCredentials
}

// GenerateTokens generates Access and Refresh tokens
func (s *Service) GenerateTokens(user models.User) (string, string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"name":     user.Name,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 8).Unix(), // one work shift
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(), // 30 days
	}
	refreshTokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshToken, err := refreshTokenObj.SignedString([]byte(s.secret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
