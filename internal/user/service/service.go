package service

import (
	"context"
	"errors"

	"github.com/nikkune/paymybuddy/internal/common/crypto"
	"github.com/nikkune/paymybuddy/internal/common/db"
	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/observability/metrics"
	"github.com/nikkune/paymybuddy/internal/user/domain"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
)

// Service owns the user lifecycle and the connection graph. Transfers are
// deliberately NOT restricted to a sender's connections; callers that want
// that policy enforce it themselves.
type Service struct {
	users          userrepo.Repository
	tx             db.TxManager
	hasher         crypto.PasswordHasher
	initialBalance money.Amount
	log            *logger.Logger
}

func NewService(
	users userrepo.Repository,
	tx db.TxManager,
	hasher crypto.PasswordHasher,
	initialBalance money.Amount,
	log *logger.Logger,
) *Service {
	return &Service{
		users:          users,
		tx:             tx,
		hasher:         hasher,
		initialBalance: initialBalance,
		log:            log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateUsername(input.Username); err != nil {
		return domain.User{}, err
	}
	if err := validateEmail(input.Email); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return domain.User{}, err
	}

	var created domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)

		if _, err := users.FindByEmail(ctx, input.Email); err == nil {
			return ErrEmailTaken.WithMessagef("user with email %s already exists", input.Email)
		} else if !errors.Is(err, userrepo.ErrUserNotFound) {
			return err
		}

		if _, err := users.FindByUsername(ctx, input.Username); err == nil {
			return ErrUsernameTaken.WithMessagef("user with username %s already exists", input.Username)
		} else if !errors.Is(err, userrepo.ErrUserNotFound) {
			return err
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}

		created, err = users.Create(ctx, domain.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Balance:      s.initialBalance,
		})
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_failed",
		}).Warnf("register failed: %v", err)
		return domain.User{}, err
	}

	metrics.UsersRegistered.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"email":   created.Email,
		"user_id": created.ID,
		"action":  "register_success",
	}).Info("register success")

	return created, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("unknown_email").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return domain.User{}, ErrUnknownEmail.WithMessagef("user with email %s not found", email)
		}
		return domain.User{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		metrics.LoginAttempts.WithLabelValues("invalid_password").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":   email,
			"user_id": user.ID,
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return domain.User{}, ErrInvalidPassword
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()

	s.log.WithFields(ctx, logger.Fields{
		"email":   email,
		"user_id": user.ID,
		"action":  "login_success",
	}).Info("login success")

	return user, nil
}

// UpdateProfileInput carries optional replacements; nil fields are left
// untouched.
type UpdateProfileInput struct {
	ID       int64
	Username *string
	Email    *string
	Password *string
}

func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (domain.User, error) {
	var updated domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)

		user, err := users.FindByID(ctx, input.ID)
		if err != nil {
			return notFoundByID(err, input.ID)
		}

		if input.Username != nil && *input.Username != user.Username {
			if err := validateUsername(*input.Username); err != nil {
				return err
			}
			if other, err := users.FindByUsername(ctx, *input.Username); err == nil && other.ID != user.ID {
				return ErrUsernameTaken.WithMessagef("user with username %s already exists", *input.Username)
			} else if err != nil && !errors.Is(err, userrepo.ErrUserNotFound) {
				return err
			}
			user.Username = *input.Username
		}

		if input.Email != nil && *input.Email != user.Email {
			if err := validateEmail(*input.Email); err != nil {
				return err
			}
			if other, err := users.FindByEmail(ctx, *input.Email); err == nil && other.ID != user.ID {
				return ErrEmailTaken.WithMessagef("user with email %s already exists", *input.Email)
			} else if err != nil && !errors.Is(err, userrepo.ErrUserNotFound) {
				return err
			}
			user.Email = *input.Email
		}

		if input.Password != nil {
			if err := validatePassword(*input.Password); err != nil {
				return err
			}
			hash, err := s.hasher.Hash(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if err := users.UpdateProfile(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": updated.ID,
		"action":  "profile_updated",
	}).Info("profile updated")

	return updated, nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) (domain.User, error) {
	var updated domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)

		user, err := users.FindByID(ctx, id)
		if err != nil {
			return notFoundByID(err, id)
		}

		ok, err := s.hasher.Verify(oldPassword, user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOldPasswordMismatch
		}

		if err := validatePassword(newPassword); err != nil {
			return err
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash

		if err := users.UpdateProfile(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": id,
			"action":  "password_change_failed",
		}).Warnf("password change failed: %v", err)
		return domain.User{}, err
	}

	metrics.PasswordChanges.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": id,
		"action":  "password_changed",
	}).Info("password changed")

	return updated, nil
}

func (s *Service) UserByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, notFoundByID(err, id)
	}
	return user, nil
}

func (s *Service) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return domain.User{}, userrepo.ErrUserNotFound.WithMessagef("user with email %s not found", email)
		}
		return domain.User{}, err
	}
	return user, nil
}

// ConnectionsOf lists the users the owner points at, in insertion order.
func (s *Service) ConnectionsOf(ctx context.Context, ownerID int64) ([]domain.User, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, notFoundByID(err, ownerID)
	}
	return s.users.Connections(ctx, ownerID)
}

func (s *Service) AddConnection(ctx context.Context, ownerID int64, peerEmail string) ([]domain.User, error) {
	var peers []domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)

		owner, err := users.FindByID(ctx, ownerID)
		if err != nil {
			return notFoundByID(err, ownerID)
		}

		peer, err := users.FindByEmail(ctx, peerEmail)
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				return userrepo.ErrUserNotFound.WithMessagef("user with email %s not found", peerEmail)
			}
			return err
		}

		if peer.ID == owner.ID {
			return ErrSelfConnection
		}

		exists, err := users.ConnectionExists(ctx, owner.ID, peer.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyConnected
		}

		if err := users.AddConnection(ctx, owner.ID, peer.ID); err != nil {
			// The primary key is the backstop for a concurrent duplicate add.
			if errors.Is(err, commonerrors.ErrUniqueViolation) {
				return ErrAlreadyConnected
			}
			return err
		}

		peers, err = users.Connections(ctx, owner.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ConnectionMutations.WithLabelValues("add").Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"peer":    peerEmail,
		"action":  "connection_added",
	}).Info("connection added")

	return peers, nil
}

func (s *Service) RemoveConnection(ctx context.Context, ownerID, peerID int64) ([]domain.User, error) {
	var peers []domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)

		owner, err := users.FindByID(ctx, ownerID)
		if err != nil {
			return notFoundByID(err, ownerID)
		}

		if _, err := users.FindByID(ctx, peerID); err != nil {
			return notFoundByID(err, peerID)
		}

		if err := users.RemoveConnection(ctx, owner.ID, peerID); err != nil {
			return err
		}

		peers, err = users.Connections(ctx, owner.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ConnectionMutations.WithLabelValues("remove").Inc()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"peer_id": peerID,
		"action":  "connection_removed",
	}).Info("connection removed")

	return peers, nil
}

func notFoundByID(err error, id int64) error {
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return userrepo.ErrUserNotFound.WithMessagef("user with id %d not found", id)
	}
	return err
}
