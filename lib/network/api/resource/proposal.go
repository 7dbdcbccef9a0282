package resource

import (
	"fmt"
	"strings"
	"time"

	"github.com/nvellon/hal"

	"remitnet.io/remit/lib/governance"
)

type Proposal struct {
	p *governance.Proposal
}

func NewProposal(p *governance.Proposal) *Proposal {
	return &Proposal{
		p: p,
	}
}

func (p Proposal) GetMap() hal.Entry {
	return hal.Entry{
		"id":                          p.p.ID,
		"recipient":                   p.p.Recipient,
		"amount":                      p.p.Amount,
		"description":                 p.p.Description,
		"votes_for":                   p.p.VotesFor,
		"votes_against":               p.p.VotesAgainst,
		"created":                     p.p.Created,
		"deadline":                    p.p.Deadline,
		"validator_count_at_creation": p.p.ValidatorCount,
		"executed":                    p.p.Executed,
		"state":                       p.p.State(time.Now()),
	}
}

func (p Proposal) Resource() *hal.Resource {
	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("votes", hal.NewLink(strings.Replace(URLVotes, "{id}", fmt.Sprintf("%d", p.p.ID), -1)))
	r.AddLink("execute", hal.NewLink(strings.Replace(URLExecute, "{id}", fmt.Sprintf("%d", p.p.ID), -1)))
	return r
}

func (p Proposal) LinkSelf() string {
	return strings.Replace(URLProposal, "{id}", fmt.Sprintf("%d", p.p.ID), -1)
}
