package service

import (
	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
)

var (
	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_TAKEN",
		commonerrors.KindConflict,
		"user with this email already exists",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.KindConflict,
		"user with this username already exists",
	)

	ErrUnknownEmail = commonerrors.NewDomainError(
		"UNKNOWN_EMAIL",
		commonerrors.KindUnauthorized,
		"user not found",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.KindUnauthorized,
		"invalid password",
	)

	ErrOldPasswordMismatch = commonerrors.NewDomainError(
		"OLD_PASSWORD_MISMATCH",
		commonerrors.KindUnauthorized,
		"old password does not match",
	)

	ErrSelfConnection = commonerrors.NewDomainError(
		"SELF_CONNECTION",
		commonerrors.KindInvalidArgument,
		"cannot connect to self",
	)

	ErrAlreadyConnected = commonerrors.NewDomainError(
		"ALREADY_CONNECTED",
		commonerrors.KindConflict,
		"user is already connected to this user",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.KindInvalidArgument,
		"validation failed",
	)
)
