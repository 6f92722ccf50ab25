package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Open returns the document store named by address:
//
//	~/.timepouch, /abs/path, file:///abs/path  diskv directory
//	sqlite:///abs/path/tp.db                   SQLite database
//	nats://host:4222/bucket                    NATS JetStream key-value bucket
//	mem://name                                 process-local memory
func Open(ctx context.Context, address string, opts ...Option) (DocumentStore, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("store: empty address")
	}

	scheme, rest, ok := strings.Cut(address, "://")
	if !ok {
		return openDiskvPath(address, opts)
	}

	switch strings.ToLower(scheme) {
	case "file":
		return openDiskvPath(rest, opts)
	case "sqlite", "sqlite3":
		path, err := homedir.Expand(rest)
		if err != nil {
			return nil, fmt.Errorf("store: expand %s: %w", rest, err)
		}
		return OpenSQLite(path, opts...)
	case "nats", "tls":
		u, err := url.Parse(address)
		if err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", address, err)
		}
		bucket := strings.Trim(u.Path, "/")
		server := (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}).String()
		return OpenKV(ctx, server, bucket, opts...)
	case "mem", "memory":
		return NamedMemory(rest), nil
	default:
		return nil, fmt.Errorf("store: unsupported address scheme %q", scheme)
	}
}

func openDiskvPath(path string, opts []Option) (DocumentStore, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("store: expand %s: %w", path, err)
	}
	return OpenDiskv(expanded, opts...)
}
