package storage

import (
	"net/url"
	"strings"

	"remitnet.io/remit/lib/errors"
)

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

type Item struct {
	Key   string
	Value interface{}
}

type Config struct {
	Scheme string
	Path   string
}

// NewConfigFromString parses storage endpoints of the form
// `memory://` or `file:///var/lib/remit/db`.
func NewConfigFromString(s string) (*Config, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "memory":
		return &Config{Scheme: "memory"}, nil
	case "file":
		path := parsed.Path
		if len(parsed.Host) > 0 {
			path = parsed.Host + path
		}
		if len(strings.TrimSpace(path)) < 1 {
			return nil, errors.StorageCoreError.Clone().SetData("endpoint", s)
		}
		return &Config{Scheme: "file", Path: path}, nil
	default:
		return nil, errors.StorageCoreError.Clone().SetData("endpoint", s)
	}
}
