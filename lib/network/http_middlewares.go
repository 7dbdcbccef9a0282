package network

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/middleware/stdlib"
	"github.com/ulule/limiter/drivers/store/memory"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/network/httputils"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rcv := recover(); rcv != nil {
					err, ok := rcv.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rcv)
					}
					httputils.WriteJSONError(w, err)
					log.Error("recovered a panic", "err", err)
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware throttles per client IP. The default rate applies
// unless the rule carries an override for the address; an override with
// limit zero turns limiting off for that address.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}
	logger.Debug("rate limit applied", "default", rule.Default.Formatted, "overrides", len(rule.ByIPAddress))

	defaultMiddleware := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rule.Default))

	byIP := map[string]*stdlib.Middleware{}
	for ip, rate := range rule.ByIPAddress {
		if rate.Limit < 1 {
			byIP[ip] = nil
			continue
		}
		byIP[ip] = stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			middleware := defaultMiddleware
			if m, found := byIP[ip]; found {
				if m == nil {
					next.ServeHTTP(w, r)
					return
				}
				middleware = m
			}

			if rule.Default.Limit < 1 && middleware == defaultMiddleware {
				next.ServeHTTP(w, r)
				return
			}

			middleware.Handler(next).ServeHTTP(w, r)
		})
	}
}
