package repository

import (
	"context"
	"time"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"

	"github.com/nikkune/paymybuddy/internal/common/db"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/user/domain"
)

var (
	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.KindNotFound,
		"user not found",
	)

	ErrConnectionNotFound = commonerrors.NewDomainError(
		"CONNECTION_NOT_FOUND",
		commonerrors.KindNotFound,
		"users are not connected",
	)
)

// Repository is the persistence surface for users and the connection graph.
// WithQuerier rebinds the repository to an open transaction so a sequence of
// calls forms one unit of work.
type Repository interface {
	WithQuerier(q db.Querier) Repository
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByIDForUpdate(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	UpdateBalance(ctx context.Context, id int64, balance money.Amount) error
	Connections(ctx context.Context, ownerID int64) ([]domain.User, error)
	ConnectionExists(ctx context.Context, ownerID, peerID int64) (bool, error)
	AddConnection(ctx context.Context, ownerID, peerID int64) error
	RemoveConnection(ctx context.Context, ownerID, peerID int64) error
}

type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

func (r *PgRepository) WithQuerier(q db.Querier) Repository {
	return &PgRepository{q: q}
}

const userColumns = `id, username, email, password_hash, balance::text, created_at`

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, balance)
		 VALUES ($1, $2, $3, $4::numeric)
		 RETURNING id, created_at`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Balance.String(),
	)

	err := row.Scan(&user.ID, &user.CreatedAt)
	if err := db.HandleQueryError(err, nil, "create user", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)

	return scanUser(row, "find user by id", start)
}

// FindByIDForUpdate takes a row lock; callers lock rows in ascending id
// order to avoid deadlocks between opposing transfers.
func (r *PgRepository) FindByIDForUpdate(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`,
		id,
	)

	return scanUser(row, "find user by id for update", start)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)

	return scanUser(row, "find user by email", start)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)

	return scanUser(row, "find user by username", start)
}

func (r *PgRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	start := time.Now()

	tag, err := r.q.Exec(
		ctx,
		`UPDATE users SET username = $1, email = $2, password_hash = $3 WHERE id = $4`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ID,
	)
	if err := db.HandleExecError(err, "update user profile", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *PgRepository) UpdateBalance(ctx context.Context, id int64, balance money.Amount) error {
	start := time.Now()

	tag, err := r.q.Exec(
		ctx,
		`UPDATE users SET balance = $1::numeric WHERE id = $2`,
		balance.String(),
		id,
	)
	if err := db.HandleExecError(err, "update user balance", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *PgRepository) Connections(ctx context.Context, ownerID int64) ([]domain.User, error) {
	start := time.Now()

	rows, err := r.q.Query(
		ctx,
		`SELECT u.id, u.username, u.email, u.password_hash, u.balance::text, u.created_at
		 FROM connections c
		 JOIN users u ON u.id = c.peer_id
		 WHERE c.owner_id = $1
		 ORDER BY c.created_at ASC, c.peer_id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list connections", start)
	}
	defer rows.Close()

	var peers []domain.User
	for rows.Next() {
		var (
			u           domain.User
			balanceText string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &balanceText, &u.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan connection", start)
		}
		u.Balance, err = money.Parse(balanceText)
		if err != nil {
			return nil, commonerrors.ErrDatabase.WithCause(err)
		}
		peers = append(peers, u)
	}
	if rows.Err() != nil {
		return nil, db.HandleQueryError(rows.Err(), nil, "list connections", start)
	}

	db.MeasureQueryDuration("list connections", start)
	return peers, nil
}

func (r *PgRepository) ConnectionExists(ctx context.Context, ownerID, peerID int64) (bool, error) {
	start := time.Now()

	var exists bool
	err := r.q.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM connections WHERE owner_id = $1 AND peer_id = $2)`,
		ownerID,
		peerID,
	).Scan(&exists)
	if err := db.HandleQueryError(err, nil, "check connection", start); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *PgRepository) AddConnection(ctx context.Context, ownerID, peerID int64) error {
	start := time.Now()

	_, err := r.q.Exec(
		ctx,
		`INSERT INTO connections (owner_id, peer_id) VALUES ($1, $2)`,
		ownerID,
		peerID,
	)
	return db.HandleExecError(err, "add connection", start)
}

func (r *PgRepository) RemoveConnection(ctx context.Context, ownerID, peerID int64) error {
	start := time.Now()

	tag, err := r.q.Exec(
		ctx,
		`DELETE FROM connections WHERE owner_id = $1 AND peer_id = $2`,
		ownerID,
		peerID,
	)
	if err := db.HandleExecError(err, "remove connection", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConnectionNotFound
	}

	return nil
}

func scanUser(row interface{ Scan(dest ...interface{}) error }, operation string, start time.Time) (domain.User, error) {
	var (
		u           domain.User
		balanceText string
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &balanceText, &u.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}

	balance, err := money.Parse(balanceText)
	if err != nil {
		return domain.User{}, commonerrors.ErrDatabase.WithCause(err)
	}
	u.Balance = balance

	return u, nil
}
