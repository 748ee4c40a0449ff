package store

import (
	"context"

	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/template"
)

// AssetJanitor is notified when an uploaded asset URL is no longer
// referenced by any template in an organization. Implementations delete
// or archive the underlying file; a nil janitor means released URLs are
// simply dropped.
type AssetJanitor interface {
	Release(ctx context.Context, orgID string, urls []string) error
}

// AssetJanitorFunc adapts a function to the AssetJanitor interface.
type AssetJanitorFunc func(ctx context.Context, orgID string, urls []string) error

func (f AssetJanitorFunc) Release(ctx context.Context, orgID string, urls []string) error {
	return f(ctx, orgID, urls)
}

// ExtractAssetURLs returns every asset URL referenced by a template
// config: the background image plus the src of every image layer. URLs
// are compared as exact strings, never parsed or canonicalized, so the
// counts track what the config actually says.
func ExtractAssetURLs(cfg *template.Config) []string {
	if cfg == nil {
		return nil
	}
	var urls []string
	if cfg.BackgroundImage != "" {
		urls = append(urls, cfg.BackgroundImage)
	}
	for _, el := range cfg.Layers {
		if el.Type == template.ElementImage && el.Src != "" {
			urls = append(urls, el.Src)
		}
	}
	return urls
}

// Manager wraps a Store and tracks asset references across an
// organization's templates. When a save or delete drops the last
// reference to a URL, the janitor is told it can be reclaimed.
type Manager struct {
	store   Store
	janitor AssetJanitor
}

// NewManager builds a Manager. janitor may be nil.
func NewManager(store Store, janitor AssetJanitor) *Manager {
	return &Manager{store: store, janitor: janitor}
}

// Store exposes the underlying store for read paths that do not need
// reference tracking.
func (m *Manager) Store() Store { return m.store }

// SaveTemplate validates the config, persists the record, and releases
// any asset URLs the update orphaned. The stored config bytes are the
// caller's serialization, untouched.
func (m *Manager) SaveTemplate(ctx context.Context, rec Record, cfg *template.Config) (Record, error) {
	if err := cfg.Validate(); err != nil {
		return Record{}, err
	}

	var before []string
	if rec.ID != "" {
		prev, err := m.store.Get(ctx, rec.OrgID, rec.ID)
		if err == nil {
			if prevCfg, perr := template.ParseConfig(prev.Config); perr == nil {
				before = ExtractAssetURLs(&prevCfg)
			}
		} else if !errors.Is(err, errors.ErrCodeTemplateNotFound) {
			return Record{}, err
		}
	}

	saved, err := m.store.Save(ctx, rec)
	if err != nil {
		return Record{}, err
	}

	released, err := m.orphaned(ctx, saved.OrgID, before)
	if err != nil {
		return saved, err
	}
	if err := m.release(ctx, saved.OrgID, released); err != nil {
		return saved, err
	}
	return saved, nil
}

// DeleteTemplate removes the record and releases the asset URLs that
// no surviving template in the org still references.
func (m *Manager) DeleteTemplate(ctx context.Context, orgID, id string) error {
	prev, err := m.store.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	var before []string
	if cfg, perr := template.ParseConfig(prev.Config); perr == nil {
		before = ExtractAssetURLs(&cfg)
	}

	if err := m.store.Delete(ctx, orgID, id); err != nil {
		return err
	}

	released, err := m.orphaned(ctx, orgID, before)
	if err != nil {
		return err
	}
	return m.release(ctx, orgID, released)
}

// orphaned filters candidates down to URLs not referenced by any of the
// org's remaining templates.
func (m *Manager) orphaned(ctx context.Context, orgID string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	recs, err := m.store.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	live := make(map[string]bool)
	for _, rec := range recs {
		cfg, perr := template.ParseConfig(rec.Config)
		if perr != nil {
			continue
		}
		for _, u := range ExtractAssetURLs(&cfg) {
			live[u] = true
		}
	}
	var released []string
	seen := make(map[string]bool)
	for _, u := range candidates {
		if live[u] || seen[u] {
			continue
		}
		seen[u] = true
		released = append(released, u)
	}
	return released, nil
}

func (m *Manager) release(ctx context.Context, orgID string, urls []string) error {
	if len(urls) == 0 || m.janitor == nil {
		return nil
	}
	if err := m.janitor.Release(ctx, orgID, urls); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "releasing %d orphaned assets", len(urls))
	}
	return nil
}
