package resource

import (
	"github.com/nvellon/hal"

	"remitnet.io/remit/lib/remittance"
)

type Remittance struct {
	r *remittance.Record
}

func NewRemittance(r *remittance.Record) *Remittance {
	return &Remittance{
		r: r,
	}
}

func (r Remittance) GetMap() hal.Entry {
	return hal.Entry{
		"from":       r.r.From,
		"to":         r.r.To,
		"net_amount": r.r.NetAmount,
		"fee":        r.r.Fee,
		"corridor":   r.r.Corridor,
		"sent_at":    r.r.SentAt,
	}
}

func (r Remittance) Resource() *hal.Resource {
	return hal.NewResource(r, r.LinkSelf())
}

func (r Remittance) LinkSelf() string {
	return URLRemittances
}
