package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nhle/notifybell/internal/credential"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/source"
	"github.com/nhle/notifybell/internal/source/httpapi"
	"github.com/nhle/notifybell/internal/source/local"
	"github.com/nhle/notifybell/internal/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSource builds the notification source selected by cfg. A configured
// API base URL selects the REST adapter, with its token loaded from the
// environment or the system keyring. Otherwise the local SQLite store is
// opened. The returned closer releases whatever the source holds.
func OpenSource(cfg *model.AppConfig, log logx.Logger) (source.Source, io.Closer, error) {
	if cfg.API.BaseURL != "" {
		token := credential.APIToken()
		if token == "" {
			log.Warn("no API token configured", logx.String("env", credential.APITokenEnv))
		}

		adapter := httpapi.NewAdapter(cfg.API.BaseURL, token, httpapi.ClientOptions{
			Timeout:    time.Duration(cfg.API.TimeoutSec) * time.Second,
			RatePerSec: cfg.API.RatePerSec,
			MaxRetries: cfg.API.MaxRetries,
		})
		log.Info("using notification service", logx.String("base_url", adapter.Name()))
		return adapter, nopCloser{}, nil
	}

	path := cfg.Store.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local store: %w", err)
	}

	log.Info("using local notification store", logx.String("path", path))
	return local.NewAdapter(s), s, nil
}
