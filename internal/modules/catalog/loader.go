package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ojasshelke/product-detail-mini-cart/internal/shared/apperr"
)

// Loader resolves product data through the fallback chain:
// remote API -> bundled JSON file -> built-in product. Each hop is tried only
// when the previous one failed, and the final error keeps the distinction
// between "source unreachable" and "source answered garbage".
type Loader struct {
	RemoteURL string // empty skips the remote hop
	LocalPath string
	Client    *http.Client
	Logger    *slog.Logger

	// DisableBuiltin drops the last hop; Load then returns the most relevant
	// error of the chain. Used by tests and strict deployments.
	DisableBuiltin bool
}

func NewLoader(remoteURL, localPath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		RemoteURL: remoteURL,
		LocalPath: localPath,
		Client:    &http.Client{Timeout: 5 * time.Second},
		Logger:    logger,
	}
}

func (l *Loader) Load(ctx context.Context) (Product, error) {
	var lastErr error

	if l.RemoteURL != "" {
		p, err := l.fetchRemote(ctx)
		if err == nil {
			return p, nil
		}
		l.Logger.Warn("remote product source failed, falling back", "url", l.RemoteURL, "err", err)
		lastErr = err
	}

	if l.LocalPath != "" {
		p, err := l.readLocal()
		if err == nil {
			return p, nil
		}
		l.Logger.Warn("local product source failed, falling back", "path", l.LocalPath, "err", err)
		// A malformed local file is more actionable than an unreachable remote.
		if lastErr == nil || isMalformed(err) {
			lastErr = err
		}
	}

	if !l.DisableBuiltin {
		l.Logger.Info("serving built-in product data")
		p := builtinProduct
		p.normalize()
		return p, nil
	}

	if lastErr == nil {
		lastErr = apperr.UnavailableErr("Product data is not configured.", nil)
	}
	return Product{}, lastErr
}

func (l *Loader) fetchRemote(ctx context.Context) (Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.RemoteURL, nil)
	if err != nil {
		return Product{}, apperr.Wrap(err)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return Product{}, apperr.UnavailableErr("Product service is unavailable.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Product{}, apperr.UnavailableErr(
			fmt.Sprintf("Product service is unavailable (HTTP %d).", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Product{}, apperr.UnavailableErr("Product service is unavailable.", err)
	}

	return decodeProduct(body)
}

func (l *Loader) readLocal() (Product, error) {
	data, err := os.ReadFile(l.LocalPath)
	if err != nil {
		return Product{}, apperr.UnavailableErr("Bundled product data is missing.", err)
	}
	return decodeProduct(data)
}

func decodeProduct(data []byte) (Product, error) {
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, apperr.MalformedErr("Product data is malformed.", err)
	}
	if p.ID == "" {
		return Product{}, apperr.MalformedErr("Product data is malformed: missing id.", nil)
	}
	p.normalize()
	return p, nil
}

func isMalformed(err error) bool {
	ae, ok := apperr.As(err)
	return ok && ae.Kind == apperr.Malformed
}
