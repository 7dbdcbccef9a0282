package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"remitnet.io/remit/lib/access"
	"remitnet.io/remit/lib/governance"
	"remitnet.io/remit/lib/network/api/resource"
	"remitnet.io/remit/lib/remittance"
	"remitnet.io/remit/lib/storage"
)

// NetworkHandlerAPI wires the HTTP surface to the governance engine, the
// remittance facade and the role store. Handlers translate coded errors
// into RFC 7807 problems and successes into HAL resources.
type NetworkHandlerAPI struct {
	storage *storage.LevelDBBackend
	engine  *governance.Engine
	facade  *remittance.Facade
	roles   *access.Store
}

const (
	GetAccountHandlerPattern        string = "/accounts/{id}"
	GetProposalsHandlerPattern      string = "/proposals"
	GetProposalByIDHandlerPattern   string = "/proposals/{id}"
	PostProposalHandlerPattern      string = "/proposals"
	PostVoteHandlerPattern          string = "/proposals/{id}/votes"
	PostExecuteHandlerPattern       string = "/proposals/{id}/execute"
	GetRemittancesHandlerPattern    string = "/remittances"
	PostRemittanceHandlerPattern    string = "/remittances"
	PostBatchTransferHandlerPattern string = "/batch-transfers"
	GetValidatorsHandlerPattern     string = "/validators"
	PostValidatorHandlerPattern     string = "/validators"
	DeleteValidatorHandlerPattern   string = "/validators/{address}"
	GetConfigHandlerPattern         string = "/config"
	PostVotingPeriodHandlerPattern  string = "/config/voting-period"
	PostQuorumHandlerPattern        string = "/config/quorum"
	PostFeeHandlerPattern           string = "/config/fee"
	PostPauseHandlerPattern         string = "/config/pause"
)

func NewNetworkHandlerAPI(st *storage.LevelDBBackend, engine *governance.Engine, facade *remittance.Facade, roles *access.Store) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		storage: st,
		engine:  engine,
		facade:  facade,
		roles:   roles,
	}
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return resource.APIPrefix + pattern
}

// AddAPIHandlers registers every endpoint on `router`; paths carry the
// `/api/v1` prefix.
func (api *NetworkHandlerAPI) AddAPIHandlers(router *mux.Router) {
	router.HandleFunc(api.HandlerURLPattern(GetAccountHandlerPattern), api.GetAccountHandler).Methods("GET")

	router.HandleFunc(api.HandlerURLPattern(GetProposalsHandlerPattern), api.GetProposalsHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostProposalHandlerPattern), api.PostProposalHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(GetProposalByIDHandlerPattern), api.GetProposalByIDHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostVoteHandlerPattern), api.PostVoteHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(PostExecuteHandlerPattern), api.PostExecuteHandler).Methods("POST")

	router.HandleFunc(api.HandlerURLPattern(GetRemittancesHandlerPattern), api.GetRemittancesHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostRemittanceHandlerPattern), api.PostRemittanceHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(PostBatchTransferHandlerPattern), api.PostBatchTransferHandler).Methods("POST")

	router.HandleFunc(api.HandlerURLPattern(GetValidatorsHandlerPattern), api.GetValidatorsHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostValidatorHandlerPattern), api.PostValidatorHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(DeleteValidatorHandlerPattern), api.DeleteValidatorHandler).Methods("DELETE")

	router.HandleFunc(api.HandlerURLPattern(GetConfigHandlerPattern), api.GetConfigHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostVotingPeriodHandlerPattern), api.PostVotingPeriodHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(PostQuorumHandlerPattern), api.PostQuorumHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(PostFeeHandlerPattern), api.PostFeeHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(PostPauseHandlerPattern), api.PostPauseHandler).Methods("POST")
}

// Router returns a ready-to-serve router with all API handlers attached.
func (api *NetworkHandlerAPI) Router() *mux.Router {
	router := mux.NewRouter()
	api.AddAPIHandlers(router)
	router.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	return router
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("handler not found", "method", r.Method, "path", r.URL.Path)
	http.Error(w, "not found", http.StatusNotFound)
}
