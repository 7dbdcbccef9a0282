package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// Hubs for the lifecycle events the engine and the facade emit.
// Event names carry the condition, e.g. `created id-3` or
// `sent corridor-KR-PH`, so subscribers can listen on `created` alone
// or on one proposal.
var ProposalObserver = observable.New()
var VoteObserver = observable.New()
var RemittanceObserver = observable.New()
var AccountObserver = observable.New()
