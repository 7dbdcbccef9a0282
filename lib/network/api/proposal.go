package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/governance"
	"remitnet.io/remit/lib/network/api/resource"
	"remitnet.io/remit/lib/network/httputils"
)

type PostProposalRequest struct {
	Proposer    string        `json:"proposer"`
	Recipient   string        `json:"recipient"`
	Amount      common.Amount `json:"amount"`
	Description string        `json:"description"`
}

type PostVoteRequest struct {
	Voter   string `json:"voter"`
	Support bool   `json:"support"`
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidMessage.Clone().SetData("reason", err.Error())
	}
	return nil
}

func proposalIDFromRequest(r *http.Request) (uint64, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		return 0, errors.InvalidQueryString.Clone().SetData("id", vars["id"])
	}
	return id, nil
}

func (api NetworkHandlerAPI) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	iterFunc, closeFunc := governance.GetProposals(api.storage, options)
	for {
		p, hasNext := iterFunc()
		if !hasNext {
			break
		}
		proposal := p
		rs = append(rs, resource.NewProposal(&proposal))
	}
	closeFunc()

	list := resource.NewResourceList(rs, resource.URLProposals)
	httputils.MustWriteJSON(w, http.StatusOK, list)
}

func (api NetworkHandlerAPI) GetProposalByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalIDFromRequest(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := governance.GetProposal(api.storage, id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewProposal(p))
}

func (api NetworkHandlerAPI) PostProposalHandler(w http.ResponseWriter, r *http.Request) {
	var req PostProposalRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := api.engine.ProposeDistribution(req.Proposer, req.Recipient, req.Amount, req.Description)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusCreated, resource.NewProposal(p))
}

func (api NetworkHandlerAPI) PostVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalIDFromRequest(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var req PostVoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.Vote(req.Voter, id, req.Support); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := governance.GetProposal(api.storage, id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewProposal(p))
}

func (api NetworkHandlerAPI) PostExecuteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalIDFromRequest(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.ExecuteDistribution(id); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := governance.GetProposal(api.storage, id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewProposal(p))
}
