package api

import (
	"net/http"
	"strconv"

	"remitnet.io/remit/lib/errors"
	"remitnet.io/remit/lib/storage"
)

// NewPageQuery builds list options from the request's query string:
// `reverse`, `cursor` and `limit`. `limit` is clamped to
// storage.DefaultMaxLimitListOptions.
func NewPageQuery(r *http.Request) (storage.ListOptions, error) {
	var (
		reverse bool
		cursor  []byte
		limit   = storage.DefaultMaxLimitListOptions
		err     error
	)

	q := r.URL.Query()

	if v := q.Get("reverse"); len(v) > 0 {
		if reverse, err = strconv.ParseBool(v); err != nil {
			return nil, errors.InvalidQueryString.Clone().SetData("reverse", v)
		}
	}

	if v := q.Get("cursor"); len(v) > 0 {
		cursor = []byte(v)
	}

	if v := q.Get("limit"); len(v) > 0 {
		if limit, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, errors.InvalidQueryString.Clone().SetData("limit", v)
		}
		if limit > storage.DefaultMaxLimitListOptions {
			limit = storage.DefaultMaxLimitListOptions
		}
	}

	return storage.NewDefaultListOptions(reverse, cursor, limit), nil
}
