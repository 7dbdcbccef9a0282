package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"remitnet.io/remit/lib/ledger"
	"remitnet.io/remit/lib/network/api/resource"
	"remitnet.io/remit/lib/network/httputils"
)

func (api NetworkHandlerAPI) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	a, err := ledger.GetAccount(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewAccount(a))
}
