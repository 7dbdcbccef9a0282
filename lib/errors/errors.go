package errors

var (
	InvalidRecipient            = NewError(100, "recipient address is invalid")
	InvalidAmount               = NewError(101, "amount must be greater than zero")
	InsufficientTreasuryBalance = NewError(102, "treasury balance is not enough")
	VotingPeriodEnded           = NewError(103, "voting period has ended")
	AlreadyVoted                = NewError(104, "voter already voted on this proposal")
	AlreadyExecuted             = NewError(105, "proposal was already executed")
	VotingPeriodNotEnded        = NewError(106, "voting period has not ended")
	ProposalNotApproved         = NewError(107, "proposal did not reach strict majority")
	QuorumNotReached            = NewError(108, "proposal did not reach quorum")
	InvalidVotingPeriod         = NewError(109, "voting period is out of bounds")
	InvalidQuorum               = NewError(110, "quorum percent is out of bounds")
	InvalidFeeRate              = NewError(111, "fee basis points are out of bounds")
	ArrayLengthMismatch         = NewError(112, "targets and amounts do not match")
	TooManyRecipients           = NewError(113, "too many recipients in batch")
	LedgerPaused                = NewError(114, "ledger is paused")
	NotCommitteeMember          = NewError(115, "account does not hold the validator role")
	NotAdmin                    = NewError(116, "account does not hold the admin role")
	ProposalNotFound            = NewError(117, "proposal does not exist")
	AccountNotFound             = NewError(118, "account does not exist")
	AccountAlreadyExists        = NewError(119, "account already exists")
	MaximumBalanceReached       = NewError(120, "balance would exceed the maximum supply")
	AccountBalanceUnderZero     = NewError(121, "account balance would go under zero")
	StorageRecordAlreadyExists  = NewError(122, "record already exists in storage")
	StorageRecordDoesNotExist   = NewError(123, "record does not exist in storage")
	StorageCoreError            = NewError(124, "storage core error")
	InvalidQueryString          = NewError(125, "found invalid query string")
	InvalidOperation            = NewError(126, "operation is invalid")
	InvalidMessage              = NewError(127, "message is invalid")
)
