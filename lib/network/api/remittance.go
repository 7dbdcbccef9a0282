package api

import (
	"net/http"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/network/api/resource"
	"remitnet.io/remit/lib/network/httputils"
	"remitnet.io/remit/lib/remittance"
)

type PostRemittanceRequest struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Amount   common.Amount `json:"amount"`
	Corridor string        `json:"corridor"`
}

type PostBatchTransferRequest struct {
	From    string          `json:"from"`
	Targets []string        `json:"targets"`
	Amounts []common.Amount `json:"amounts"`
}

func (api NetworkHandlerAPI) GetRemittancesHandler(w http.ResponseWriter, r *http.Request) {
	options, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	iterFunc, closeFunc := remittance.GetRecordsBySent(api.storage, options)
	for {
		record, hasNext := iterFunc()
		if !hasNext {
			break
		}
		rec := record
		rs = append(rs, resource.NewRemittance(&rec))
	}
	closeFunc()

	list := resource.NewResourceList(rs, resource.URLRemittances)
	httputils.MustWriteJSON(w, http.StatusOK, list)
}

func (api NetworkHandlerAPI) PostRemittanceHandler(w http.ResponseWriter, r *http.Request) {
	var req PostRemittanceRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	record, err := api.facade.SendRemittance(req.From, req.To, req.Amount, req.Corridor)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusCreated, resource.NewRemittance(record))
}

func (api NetworkHandlerAPI) PostBatchTransferHandler(w http.ResponseWriter, r *http.Request) {
	var req PostBatchTransferRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if err := api.facade.BatchTransfer(req.From, req.Targets, req.Amounts); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":    req.From,
		"targets": len(req.Targets),
		"status":  "applied",
	})
}
