package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/nikkune/paymybuddy/internal/common/constants"
	"github.com/nikkune/paymybuddy/internal/common/db"
	"github.com/nikkune/paymybuddy/internal/common/logger"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/observability/metrics"
	"github.com/nikkune/paymybuddy/internal/transfer/domain"
	transferrepo "github.com/nikkune/paymybuddy/internal/transfer/repository"
	userrepo "github.com/nikkune/paymybuddy/internal/user/repository"
)

// Service moves money between users. Debit, credit and the transaction
// record land in one database transaction, so the books always balance.
type Service struct {
	users        userrepo.Repository
	transactions transferrepo.Repository
	tx           db.TxManager
	log          *logger.Logger
}

func NewService(
	users userrepo.Repository,
	transactions transferrepo.Repository,
	tx db.TxManager,
	log *logger.Logger,
) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		tx:           tx,
		log:          log,
	}
}

type TransferInput struct {
	SenderID    int64
	ReceiverID  int64
	Description string
	Amount      money.Amount
}

func (s *Service) Transfer(ctx context.Context, input TransferInput) (domain.Transaction, error) {
	start := time.Now()

	if !input.Amount.IsPositive() {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return domain.Transaction{}, ErrNonPositiveAmount
	}
	if input.SenderID == input.ReceiverID {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return domain.Transaction{}, ErrSelfTransfer
	}
	if utf8.RuneCountInString(input.Description) > constants.DescriptionMaxLength {
		metrics.TransfersTotal.WithLabelValues("rejected").Inc()
		return domain.Transaction{}, ErrDescriptionTooLong
	}

	var created domain.Transaction
	err := s.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		users := s.users.WithQuerier(q)
		transactions := s.transactions.WithQuerier(q)

		// Lock both rows in ascending id order so two opposing transfers
		// cannot deadlock each other.
		firstID, secondID := input.SenderID, input.ReceiverID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}

		first, err := users.FindByIDForUpdate(ctx, firstID)
		if err != nil {
			return notFoundByID(err, firstID)
		}
		second, err := users.FindByIDForUpdate(ctx, secondID)
		if err != nil {
			return notFoundByID(err, secondID)
		}

		sender, receiver := first, second
		if sender.ID != input.SenderID {
			sender, receiver = second, first
		}

		if sender.Balance.LessThan(input.Amount) {
			return ErrInsufficientBalance
		}

		if err := users.UpdateBalance(ctx, sender.ID, sender.Balance.Sub(input.Amount)); err != nil {
			return err
		}
		if err := users.UpdateBalance(ctx, receiver.ID, receiver.Balance.Add(input.Amount)); err != nil {
			return err
		}

		created, err = transactions.Create(ctx, domain.Transaction{
			SenderID:    sender.ID,
			ReceiverID:  receiver.ID,
			Description: input.Description,
			Amount:      input.Amount,
		})
		return err
	})
	if err != nil {
		metrics.TransfersTotal.WithLabelValues("failed").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"sender_id":   input.SenderID,
			"receiver_id": input.ReceiverID,
			"amount":      input.Amount.String(),
			"action":      "transfer_failed",
		}).Warnf("transfer failed: %v", err)
		return domain.Transaction{}, err
	}

	metrics.TransfersTotal.WithLabelValues("success").Inc()
	metrics.TransferredCentsTotal.Add(float64(input.Amount))
	metrics.TransferDurationSeconds.Observe(time.Since(start).Seconds())

	s.log.WithFields(ctx, logger.Fields{
		"sender_id":      created.SenderID,
		"receiver_id":    created.ReceiverID,
		"transaction_id": created.ID,
		"amount":         created.Amount.String(),
		"action":         "transfer_success",
	}).Info("transfer success")

	return created, nil
}

// TransactionsOf lists the user's full history, newest first.
func (s *Service) TransactionsOf(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFoundByID(err, userID)
	}
	return s.transactions.ListByUser(ctx, userID)
}

func (s *Service) TransactionByID(ctx context.Context, id int64) (domain.Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, transferrepo.ErrTransactionNotFound) {
			return domain.Transaction{}, transferrepo.ErrTransactionNotFound.WithMessagef("transaction with id %d not found", id)
		}
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (s *Service) TransactionsBetween(ctx context.Context, firstID, secondID int64) ([]domain.Transaction, error) {
	if _, err := s.users.FindByID(ctx, firstID); err != nil {
		return nil, notFoundByID(err, firstID)
	}
	if _, err := s.users.FindByID(ctx, secondID); err != nil {
		return nil, notFoundByID(err, secondID)
	}
	return s.transactions.ListBetween(ctx, firstID, secondID)
}

func notFoundByID(err error, id int64) error {
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return userrepo.ErrUserNotFound.WithMessagef("user with id %d not found", id)
	}
	return err
}
