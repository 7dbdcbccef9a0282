package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"remitnet.io/remit/lib/access"
	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/network/httputils"
)

type PostValidatorRequest struct {
	Caller  string `json:"caller"`
	Address string `json:"address"`
}

type PostVotingPeriodRequest struct {
	Caller  string `json:"caller"`
	Seconds uint64 `json:"seconds"`
}

type PostQuorumRequest struct {
	Caller  string `json:"caller"`
	Percent uint64 `json:"percent"`
}

type PostFeeRequest struct {
	Caller      string `json:"caller"`
	BasisPoints uint64 `json:"basis_points"`
}

type PostPauseRequest struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

func (api NetworkHandlerAPI) GetValidatorsHandler(w http.ResponseWriter, r *http.Request) {
	addresses, err := api.roles.Members(access.RoleValidator)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]interface{}{
		"validators": addresses,
		"count":      len(addresses),
	})
}

func (api NetworkHandlerAPI) PostValidatorHandler(w http.ResponseWriter, r *http.Request) {
	var req PostValidatorRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.GrantValidator(req.Caller, req.Address); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusCreated, map[string]string{
		"address": req.Address,
		"role":    access.RoleValidator,
	})
}

func (api NetworkHandlerAPI) DeleteValidatorHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req PostValidatorRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.RevokeValidator(req.Caller, vars["address"]); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api NetworkHandlerAPI) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	conf := api.engine.Conf()

	balance, err := ledger.BalanceOf(api.storage, conf.TreasuryAddress)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]interface{}{
		"voting_period_seconds": uint64(conf.VotingPeriod / time.Second),
		"quorum_percent":        conf.QuorumPercent,
		"fee_basis_points":      conf.FeeBasisPoints,
		"treasury_address":      conf.TreasuryAddress,
		"treasury_balance":      balance,
	})
}

func (api NetworkHandlerAPI) PostVotingPeriodHandler(w http.ResponseWriter, r *http.Request) {
	var req PostVotingPeriodRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.SetVotingPeriod(req.Caller, time.Duration(req.Seconds)*time.Second); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]uint64{"voting_period_seconds": req.Seconds})
}

func (api NetworkHandlerAPI) PostQuorumHandler(w http.ResponseWriter, r *http.Request) {
	var req PostQuorumRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.SetQuorumPercent(req.Caller, req.Percent); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]uint64{"quorum_percent": req.Percent})
}

func (api NetworkHandlerAPI) PostFeeHandler(w http.ResponseWriter, r *http.Request) {
	var req PostFeeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.SetFeeBasisPoints(req.Caller, req.BasisPoints); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]uint64{"fee_basis_points": req.BasisPoints})
}

func (api NetworkHandlerAPI) PostPauseHandler(w http.ResponseWriter, r *http.Request) {
	var req PostPauseRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.engine.SetPaused(req.Caller, req.Paused); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}
