package governance

import (
	"fmt"
	"time"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/storage"
)

// Proposal is a request to distribute treasury funds. the storage should
// support,
//  * find by sequential id
//  * check whether a voter already voted
//
// models
//  * 'proposal'
// 	- 'gp-proposal-<%020d id>': `Proposal`
//  * 'voted'
// 	- 'gp-voted-<%020d id>-<voter address>': `Vote`
//  * 'sequence'
// 	- 'gp-sequence': next id to assign, starting at 0

const ProposalPrefix string = "gp-proposal-"
const ProposalVotedPrefix string = "gp-voted-"
const proposalSequenceKey string = "gp-sequence"

type Proposal struct {
	ID          uint64        `json:"id"`
	Recipient   string        `json:"recipient"`
	Amount      common.Amount `json:"amount"`
	Description string        `json:"description"`

	VotesFor     uint64 `json:"votes_for"`
	VotesAgainst uint64 `json:"votes_against"`

	Created  string `json:"created"`
	Deadline string `json:"deadline"`

	// Number of validators when the proposal was created; quorum is
	// always computed against this snapshot, never the live count.
	ValidatorCount uint64 `json:"validator_count_at_creation"`

	Executed bool `json:"executed"`
}

type Vote struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Support    bool   `json:"support"`
	VotedAt    string `json:"voted_at"`
}

func GetProposalKey(id uint64) string {
	return fmt.Sprintf("%s%020d", ProposalPrefix, id)
}

func GetProposalVotedKey(id uint64, voter string) string {
	return fmt.Sprintf("%s%020d-%s", ProposalVotedPrefix, id, voter)
}

func (p *Proposal) String() string {
	return string(common.MustJSONMarshal(p))
}

func (p *Proposal) Serialize() (encoded []byte, err error) {
	encoded, err = common.EncodeJSONValue(p)
	return
}

func (p *Proposal) Save(st *storage.LevelDBBackend) (err error) {
	key := GetProposalKey(p.ID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		return st.Set(key, p)
	}
	return st.New(key, p)
}

// CreateProposal assigns the next sequential id and stores the proposal.
// Callers pass a transaction backend when creation must be atomic with
// other writes.
func CreateProposal(st *storage.LevelDBBackend, recipient string, amount common.Amount, description string, created, deadline time.Time, validatorCount uint64) (p *Proposal, err error) {
	var id uint64
	if id, err = nextProposalID(st); err != nil {
		return
	}

	p = &Proposal{
		ID:             id,
		Recipient:      recipient,
		Amount:         amount,
		Description:    description,
		Created:        common.FormatISO8601(created),
		Deadline:       common.FormatISO8601(deadline),
		ValidatorCount: validatorCount,
	}

	if err = p.Save(st); err != nil {
		p = nil
		return
	}

	return
}

func nextProposalID(st *storage.LevelDBBackend) (id uint64, err error) {
	var exists bool
	if exists, err = st.Has(proposalSequenceKey); err != nil {
		return
	}

	if exists {
		if err = st.Get(proposalSequenceKey, &id); err != nil {
			return
		}
		err = st.Set(proposalSequenceKey, id+1)
		return
	}

	err = st.New(proposalSequenceKey, id+1)
	return
}

func ExistsProposal(st *storage.LevelDBBackend, id uint64) (bool, error) {
	return st.Has(GetProposalKey(id))
}

func GetProposal(st *storage.LevelDBBackend, id uint64) (p *Proposal, err error) {
	if err = st.Get(GetProposalKey(id), &p); err != nil {
		if err == errors.StorageRecordDoesNotExist {
			err = errors.ProposalNotFound.Clone().SetData("id", id)
		}
		return
	}

	return
}

func GetProposals(st *storage.LevelDBBackend, options storage.ListOptions) (func() (Proposal, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(ProposalPrefix, options)

	return (func() (Proposal, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Proposal{}, false
			}

			var p Proposal
			common.MustUnmarshalJSON(item.Value, &p)
			return p, hasNext
		}), (func() {
			closeFunc()
		})
}

func (p *Proposal) HasVoted(st *storage.LevelDBBackend, voter string) (bool, error) {
	return st.Has(GetProposalVotedKey(p.ID, voter))
}

// RecordVote appends `voter` to the proposal's voter set and bumps the
// matching counter. The voter-set key is created with `New`, so a second
// vote by the same voter fails no matter what the caller checked before.
func (p *Proposal) RecordVote(st *storage.LevelDBBackend, voter string, support bool) (err error) {
	vote := Vote{
		ProposalID: p.ID,
		Voter:      voter,
		Support:    support,
		VotedAt:    common.NowISO8601(),
	}

	if err = st.New(GetProposalVotedKey(p.ID, voter), vote); err != nil {
		if err == errors.StorageRecordAlreadyExists {
			err = errors.AlreadyVoted.Clone().SetData("id", p.ID).SetData("voter", voter)
		}
		return
	}

	if support {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}

	return p.Save(st)
}

// MarkExecuted flips the one-way executed flag.
func (p *Proposal) MarkExecuted(st *storage.LevelDBBackend) error {
	if p.Executed {
		return errors.AlreadyExecuted.Clone().SetData("id", p.ID)
	}

	p.Executed = true
	return p.Save(st)
}

func (p *Proposal) DeadlineTime() time.Time {
	t, err := common.ParseISO8601(p.Deadline)
	if err != nil {
		panic(err)
	}
	return t
}

// State reports where the proposal sits in its lifecycle: `open` while
// voting runs, `closed` once the deadline passed, `executed` after the
// funds moved. A closed proposal that never satisfies the execution
// gates stays `closed` forever.
func (p *Proposal) State(now time.Time) string {
	switch {
	case p.Executed:
		return "executed"
	case now.Before(p.DeadlineTime()):
		return "open"
	default:
		return "closed"
	}
}
