package httputils

import (
	"net/http"

	"remitnet.io/remit/lib/errors"
)

var ErrorsToStatus = map[uint]int{
	errors.InvalidRecipient.Code:            http.StatusBadRequest,
	errors.InvalidAmount.Code:               http.StatusBadRequest,
	errors.InvalidVotingPeriod.Code:         http.StatusBadRequest,
	errors.InvalidQuorum.Code:               http.StatusBadRequest,
	errors.InvalidFeeRate.Code:              http.StatusBadRequest,
	errors.ArrayLengthMismatch.Code:         http.StatusBadRequest,
	errors.TooManyRecipients.Code:           http.StatusBadRequest,
	errors.InvalidQueryString.Code:          http.StatusBadRequest,
	errors.InvalidOperation.Code:            http.StatusBadRequest,
	errors.InvalidMessage.Code:              http.StatusBadRequest,
	errors.NotCommitteeMember.Code:          http.StatusForbidden,
	errors.NotAdmin.Code:                    http.StatusForbidden,
	errors.ProposalNotFound.Code:            http.StatusNotFound,
	errors.AccountNotFound.Code:             http.StatusNotFound,
	errors.AccountAlreadyExists.Code:        http.StatusConflict,
	errors.AlreadyVoted.Code:                http.StatusConflict,
	errors.AlreadyExecuted.Code:             http.StatusConflict,
	errors.VotingPeriodEnded.Code:           http.StatusConflict,
	errors.VotingPeriodNotEnded.Code:        http.StatusConflict,
	errors.ProposalNotApproved.Code:         http.StatusConflict,
	errors.QuorumNotReached.Code:            http.StatusConflict,
	errors.InsufficientTreasuryBalance.Code: http.StatusConflict,
	errors.MaximumBalanceReached.Code:       http.StatusConflict,
	errors.AccountBalanceUnderZero.Code:     http.StatusConflict,
	errors.LedgerPaused.Code:                http.StatusServiceUnavailable,
}

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
	}
	return http.StatusInternalServerError
}
