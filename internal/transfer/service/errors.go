package service

import (
	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
)

var (
	ErrNonPositiveAmount = commonerrors.NewDomainError(
		"NON_POSITIVE_AMOUNT",
		commonerrors.KindInvalidArgument,
		"amount must be positive",
	)

	ErrSelfTransfer = commonerrors.NewDomainError(
		"SELF_TRANSFER",
		commonerrors.KindInvalidArgument,
		"sender and receiver must differ",
	)

	ErrDescriptionTooLong = commonerrors.NewDomainError(
		"DESCRIPTION_TOO_LONG",
		commonerrors.KindInvalidArgument,
		"description must be at most 255 characters",
	)

	ErrInsufficientBalance = commonerrors.NewDomainError(
		"INSUFFICIENT_BALANCE",
		commonerrors.KindFailedPrecondition,
		"insufficient balance",
	)
)
