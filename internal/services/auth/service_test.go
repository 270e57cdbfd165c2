package auth

import (
	"errors"
	"testing"

	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	"github.com/maroso-log/devtrack/internal/utils"
)

const testSecret = "test-secret"

func seedUsers(t *testing.T) *sheetdb.MemoryBackend {
	t.Helper()
	hash, err := utils.HashPassword("senha123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	mem := sheetdb.NewMemoryBackend()
	mem.Seed(sheetdb.TableUsers,
		[]string{"USERNAME", "PASSWORD", "NOME", "PERFIL"},
		[]string{"ana", hash, "Ana Souza", "admin"},
		[]string{"bruno", "textoplano", "Bruno Lima", "operador"},
	)
	return mem
}

func TestAuthenticateHashedPassword(t *testing.T) {
	svc := NewService(seedUsers(t), testSecret)

	user, err := svc.Authenticate("ana", "senha123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.Name != "Ana Souza" || user.Role != "admin" {
		t.Errorf("User fields mismatch: %+v", user)
	}
}

func TestAuthenticateLegacyPlaintextRow(t *testing.T) {
	svc := NewService(seedUsers(t), testSecret)

	user, err := svc.Authenticate("bruno", "textoplano")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.Username != "bruno" {
		t.Errorf("Wrong user: %+v", user)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc := NewService(seedUsers(t), testSecret)

	if _, err := svc.Authenticate("ana", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Wrong password should fail with ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("ninguem", "senha123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Unknown user should fail with ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateEmptyUserBase(t *testing.T) {
	mem := sheetdb.NewMemoryBackend()
	mem.Seed(sheetdb.TableUsers, []string{"USERNAME", "PASSWORD", "NOME", "PERFIL"})
	svc := NewService(mem, testSecret)

	if _, err := svc.Authenticate("ana", "senha123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Empty user base should reject every login, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService(seedUsers(t), testSecret)
	user := models.User{Username: "ana", Name: "Ana Souza", Role: "admin"}

	access, refresh, err := svc.GenerateTokens(user)
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatal("Expected two distinct non-empty tokens")
	}

	claims, err := ValidateToken(access, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims["username"] != "ana" || claims["role"] != "admin" {
		t.Errorf("Claims mismatch: %v", claims)
	}

	if _, err := ValidateToken(access, "outro-segredo"); err == nil {
		t.Error("Token signed with another secret must not validate")
	}
	if _, err := ValidateToken("not.a.token", testSecret); err == nil {
		t.Error("Garbage token must not validate")
	}
}
