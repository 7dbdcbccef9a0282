package remittance

import (
	logging "github.com/inconshreveable/log15"

	"remitnet.io/remit/lib/common"
)

var log logging.Logger = logging.New("module", "remittance")

func init() {
	common.SetLogging(log, common.DefaultLogLevel, common.DefaultLogHandler)
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}
