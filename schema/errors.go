package schema

import (
	"errors"
	"strings"
)

var (
	ErrNotExist = errors.New("not_exist_record")

	ErrNameTooShort  = errors.New("domain_name_too_short")
	ErrNotOwner      = errors.New("not_domain_owner")
	ErrNotConnected  = errors.New("wallet_not_connected")
	ErrWrongNetwork  = errors.New("wrong_network")
	ErrLoading       = errors.New("transaction_in_progress")
	ErrWalletMissing = errors.New("wallet_not_installed")

	ErrTxFailed        = errors.New("transaction_failed")
	ErrSetRecordFailed = errors.New("set_record_failed")
	ErrUserRejected    = errors.New("user_rejected_request")
	ErrUnknownChain    = errors.New("unrecognized_chain")

	ErrReadFailed = errors.New("registry_read_failed")
)

type ErrorKind string

const (
	UserInputError              ErrorKind = "user_input"
	EnvironmentMissing          ErrorKind = "environment_missing"
	TransactionRejectedOrFailed ErrorKind = "transaction_rejected_or_failed"
	ReadFailure                 ErrorKind = "read_failure"
	InternalError               ErrorKind = "internal"
)

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWalletMissing):
		return EnvironmentMissing
	case errors.Is(err, ErrNameTooShort), errors.Is(err, ErrNotOwner),
		errors.Is(err, ErrNotConnected), errors.Is(err, ErrWrongNetwork), errors.Is(err, ErrLoading):
		return UserInputError
	case errors.Is(err, ErrTxFailed), errors.Is(err, ErrSetRecordFailed),
		errors.Is(err, ErrUserRejected), errors.Is(err, ErrUnknownChain):
		return TransactionRejectedOrFailed
	case errors.Is(err, ErrReadFailed):
		return ReadFailure
	}
	return InternalError
}

var sentinels = []error{
	ErrNotExist, ErrNameTooShort, ErrNotOwner, ErrNotConnected, ErrWrongNetwork,
	ErrLoading, ErrWalletMissing, ErrTxFailed, ErrSetRecordFailed, ErrUserRejected,
	ErrUnknownChain, ErrReadFailed,
}

// ErrorOf maps the leading text of an api error back to its sentinel, nil if unknown.
func ErrorOf(msg string) error {
	for _, e := range sentinels {
		if msg == e.Error() || strings.HasPrefix(msg, e.Error()+":") {
			return e
		}
	}
	return nil
}
