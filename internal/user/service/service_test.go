package service

import (
	"context"
	"errors"
	"testing"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/user/domain"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
)

func setupService(t *testing.T) (*Service, *mockUserRepo, *mockHasher) {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	svc := NewService(repo, mockTxManager{}, hasher, money.MustParse("200.00"), log)
	return svc, repo, hasher
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		if user.Balance != money.MustParse("200.00") {
			t.Errorf("expected opening balance 200.00, got %s", user.Balance)
		}
		if user.PasswordHash != "hashed:password123" {
			t.Errorf("expected hashed password, got %q", user.PasswordHash)
		}
		user.ID = 7
		return user, nil
	}

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != 7 {
		t.Errorf("expected id 7, got %d", user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{ID: 1, Email: email}, nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if de, _ := commonerrors.AsDomainError(err); de.Message() != "user with email alice@example.com already exists" {
		t.Errorf("unexpected message: %q", de.Message())
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{ID: 2, Username: username}, nil
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setupService(t)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"}},
		{"blank username", RegisterInput{Username: "   ", Email: "alice@example.com", Password: "password123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{ID: 3, Email: email, PasswordHash: "hashed:password123"}, nil
	}

	user, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != 3 {
		t.Errorf("expected id 3, got %d", user.ID)
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "password123")
	if !errors.Is(err, ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
	if commonerrors.KindOf(err) != commonerrors.KindUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", commonerrors.KindOf(err))
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{ID: 3, Email: email, PasswordHash: "hashed:password123"}, nil
	}

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "password124")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestUpdateProfile_UsernameConflict(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByIDFunc = func(ctx context.Context, id int64) (domain.User, error) {
		return domain.User{ID: id, Username: "alice", Email: "alice@example.com"}, nil
	}
	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{ID: 99, Username: username}, nil
	}

	newName := "taken"
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ID: 1, Username: &newName})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByIDFunc = func(ctx context.Context, id int64) (domain.User, error) {
		return domain.User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: "hashed:old"}, nil
	}

	var saved domain.User
	repo.updateProfileFunc = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}

	newEmail := "alice@new.example.com"
	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ID: 1, Email: &newEmail})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.Email != newEmail {
		t.Errorf("expected email to change, got %q", saved.Email)
	}
	if saved.Username != "alice" || saved.PasswordHash != "hashed:old" {
		t.Error("untouched fields must be preserved")
	}
	if updated.Email != newEmail {
		t.Errorf("returned user must carry the new email, got %q", updated.Email)
	}
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	newName := "someone"
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ID: 404, Username: &newName})
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByIDFunc = func(ctx context.Context, id int64) (domain.User, error) {
		return domain.User{ID: id, Username: "alice", PasswordHash: "hashed:oldpassword"}, nil
	}

	var saved domain.User
	repo.updateProfileFunc = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}

	if _, err := svc.ChangePassword(context.Background(), 1, "wrongpassword", "newpassword1"); !errors.Is(err, ErrOldPasswordMismatch) {
		t.Fatalf("expected ErrOldPasswordMismatch, got %v", err)
	}

	if _, err := svc.ChangePassword(context.Background(), 1, "oldpassword", "newpassword1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.PasswordHash != "hashed:newpassword1" {
		t.Errorf("expected new hash to be stored, got %q", saved.PasswordHash)
	}
}

func TestAddConnection(t *testing.T) {
	alice := domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	bob := domain.User{ID: 2, Username: "bob", Email: "bob@example.com"}

	lookup := func(repo *mockUserRepo) {
		repo.findByIDFunc = func(ctx context.Context, id int64) (domain.User, error) {
			if id == alice.ID {
				return alice, nil
			}
			return domain.User{}, userrepo.ErrUserNotFound
		}
		repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
			switch email {
			case alice.Email:
				return alice, nil
			case bob.Email:
				return bob, nil
			}
			return domain.User{}, userrepo.ErrUserNotFound
		}
	}

	t.Run("success", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		lookup(repo)
		repo.connectionsFunc = func(ctx context.Context, ownerID int64) ([]domain.User, error) {
			return []domain.User{bob}, nil
		}

		peers, err := svc.AddConnection(context.Background(), alice.ID, bob.Email)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(peers) != 1 || peers[0].ID != bob.ID {
			t.Errorf("expected updated peer list with bob, got %v", peers)
		}
	})

	t.Run("self", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		lookup(repo)

		_, err := svc.AddConnection(context.Background(), alice.ID, alice.Email)
		if !errors.Is(err, ErrSelfConnection) {
			t.Fatalf("expected ErrSelfConnection, got %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		lookup(repo)
		repo.connectionExistsFunc = func(ctx context.Context, ownerID, peerID int64) (bool, error) {
			return true, nil
		}

		_, err := svc.AddConnection(context.Background(), alice.ID, bob.Email)
		if !errors.Is(err, ErrAlreadyConnected) {
			t.Fatalf("expected ErrAlreadyConnected, got %v", err)
		}
	})

	t.Run("unknown peer", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		lookup(repo)

		_, err := svc.AddConnection(context.Background(), alice.ID, "ghost@example.com")
		if !errors.Is(err, userrepo.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestRemoveConnection_NotConnected(t *testing.T) {
	svc, repo, _ := setupService(t)

	repo.findByIDFunc = func(ctx context.Context, id int64) (domain.User, error) {
		return domain.User{ID: id}, nil
	}
	repo.removeConnectionFunc = func(ctx context.Context, ownerID, peerID int64) error {
		return userrepo.ErrConnectionNotFound
	}

	_, err := svc.RemoveConnection(context.Background(), 1, 2)
	if !errors.Is(err, userrepo.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}
