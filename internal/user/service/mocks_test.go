package service

import (
	"context"

	"github.com/nikkune/paymybuddy/internal/common/db"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/user/domain"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
)

type mockUserRepo struct {
	createFunc            func(ctx context.Context, user domain.User) (domain.User, error)
	findByIDFunc          func(ctx context.Context, id int64) (domain.User, error)
	findByIDForUpdateFunc func(ctx context.Context, id int64) (domain.User, error)
	findByEmailFunc       func(ctx context.Context, email string) (domain.User, error)
	findByUsernameFunc    func(ctx context.Context, username string) (domain.User, error)
	updateProfileFunc     func(ctx context.Context, user domain.User) error
	updateBalanceFunc     func(ctx context.Context, id int64, balance money.Amount) error
	connectionsFunc       func(ctx context.Context, ownerID int64) ([]domain.User, error)
	connectionExistsFunc  func(ctx context.Context, ownerID, peerID int64) (bool, error)
	addConnectionFunc     func(ctx context.Context, ownerID, peerID int64) error
	removeConnectionFunc  func(ctx context.Context, ownerID, peerID int64) error
}

func (m *mockUserRepo) WithQuerier(q db.Querier) userrepo.Repository {
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByIDForUpdate(ctx context.Context, id int64) (domain.User, error) {
	if m.findByIDForUpdateFunc != nil {
		return m.findByIDForUpdateFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user domain.User) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateBalance(ctx context.Context, id int64, balance money.Amount) error {
	if m.updateBalanceFunc != nil {
		return m.updateBalanceFunc(ctx, id, balance)
	}
	return nil
}

func (m *mockUserRepo) Connections(ctx context.Context, ownerID int64) ([]domain.User, error) {
	if m.connectionsFunc != nil {
		return m.connectionsFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockUserRepo) ConnectionExists(ctx context.Context, ownerID, peerID int64) (bool, error) {
	if m.connectionExistsFunc != nil {
		return m.connectionExistsFunc(ctx, ownerID, peerID)
	}
	return false, nil
}

func (m *mockUserRepo) AddConnection(ctx context.Context, ownerID, peerID int64) error {
	if m.addConnectionFunc != nil {
		return m.addConnectionFunc(ctx, ownerID, peerID)
	}
	return nil
}

func (m *mockUserRepo) RemoveConnection(ctx context.Context, ownerID, peerID int64) error {
	if m.removeConnectionFunc != nil {
		return m.removeConnectionFunc(ctx, ownerID, peerID)
	}
	return nil
}

// mockTxManager runs the unit of work inline; commits and rollbacks are the
// real manager's concern.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	return fn(ctx, nil)
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, hash string) (bool, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) (bool, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed:"+password, nil
}
