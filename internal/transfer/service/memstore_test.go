package service

import (
	"context"
	"sync"

	"github.com/nikkune/paymybuddy/internal/common/db"
	"github.com/nikkune/paymybuddy/internal/common/money"
	transferdomain "github.com/nikkune/paymybuddy/internal/transfer/domain"
	transferrepo "github.com/nikkune/paymybuddy/internal/transfer/repository"
	userdomain "github.com/nikkune/paymybuddy/internal/user/domain"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
)

// memStore backs the transfer engine tests with an in-memory, transactional
// store. WithTx serializes units of work under one mutex and rolls balances
// back when the unit fails, which mirrors the commit/rollback contract the
// engine relies on.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]userdomain.User
	transactions []transferdomain.Transaction
	nextTxID     int64
}

func newMemStore(users ...userdomain.User) *memStore {
	s := &memStore{
		users:    make(map[int64]userdomain.User),
		nextTxID: 1,
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) balances() map[int64]money.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]money.Amount, len(s.users))
	for id, u := range s.users {
		out[id] = u.Balance
	}
	return out
}

// WithTx implements db.TxManager.
func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]userdomain.User, len(s.users))
	for id, u := range s.users {
		snapshot[id] = u
	}
	txCount := len(s.transactions)

	if err := fn(ctx, nil); err != nil {
		s.users = snapshot
		s.transactions = s.transactions[:txCount]
		return err
	}
	return nil
}

type memUserRepo struct {
	store *memStore
	inTx  bool
}

func (r *memUserRepo) WithQuerier(q db.Querier) userrepo.Repository {
	return &memUserRepo{store: r.store, inTx: true}
}

func (r *memUserRepo) find(id int64) (userdomain.User, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	u, ok := r.store.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (userdomain.User, error) {
	return r.find(id)
}

func (r *memUserRepo) FindByIDForUpdate(ctx context.Context, id int64) (userdomain.User, error) {
	return r.find(id)
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	r.store.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, user userdomain.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdateBalance(ctx context.Context, id int64, balance money.Amount) error {
	u, ok := r.store.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.Balance = balance
	r.store.users[id] = u
	return nil
}

func (r *memUserRepo) Connections(ctx context.Context, ownerID int64) ([]userdomain.User, error) {
	return nil, nil
}

func (r *memUserRepo) ConnectionExists(ctx context.Context, ownerID, peerID int64) (bool, error) {
	return false, nil
}

func (r *memUserRepo) AddConnection(ctx context.Context, ownerID, peerID int64) error {
	return nil
}

func (r *memUserRepo) RemoveConnection(ctx context.Context, ownerID, peerID int64) error {
	return nil
}

type memTransferRepo struct {
	store *memStore
	inTx  bool
}

func (r *memTransferRepo) WithQuerier(q db.Querier) transferrepo.Repository {
	return &memTransferRepo{store: r.store, inTx: true}
}

func (r *memTransferRepo) Create(ctx context.Context, tx transferdomain.Transaction) (transferdomain.Transaction, error) {
	tx.ID = r.store.nextTxID
	r.store.nextTxID++
	r.store.transactions = append(r.store.transactions, tx)
	return tx, nil
}

func (r *memTransferRepo) FindByID(ctx context.Context, id int64) (transferdomain.Transaction, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	for _, tx := range r.store.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return transferdomain.Transaction{}, transferrepo.ErrTransactionNotFound
}

func (r *memTransferRepo) ListByUser(ctx context.Context, userID int64) ([]transferdomain.Transaction, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	var out []transferdomain.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		tx := r.store.transactions[i]
		if tx.SenderID == userID || tx.ReceiverID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *memTransferRepo) ListBetween(ctx context.Context, firstID, secondID int64) ([]transferdomain.Transaction, error) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	var out []transferdomain.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		tx := r.store.transactions[i]
		if (tx.SenderID == firstID && tx.ReceiverID == secondID) ||
			(tx.SenderID == secondID && tx.ReceiverID == firstID) {
			out = append(out, tx)
		}
	}
	return out, nil
}
