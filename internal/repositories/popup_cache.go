package repositories

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/anonto42/cookbook/backend/internal/models"
	"github.com/bradfitz/gomemcache/memcache"
)

// PopupCache caches the user card rendered by the profile popup.
type PopupCache interface {
	Get(name string) (*models.UserCard, bool)
	Set(card *models.UserCard) error
	Invalidate(names ...string) error
}

// MemcachedPopupCache stores user cards as JSON in memcached for five minutes.
type MemcachedPopupCache struct {
	client *memcache.Client
}

// NewMemcachedPopupCache creates a cache talking to the given server list.
func NewMemcachedPopupCache(servers ...string) *MemcachedPopupCache {
	return &MemcachedPopupCache{client: memcache.New(servers...)}
}

func popupKey(name string) string {
	return "popup:" + url.PathEscape(name)
}

func (c *MemcachedPopupCache) Get(name string) (*models.UserCard, bool) {
	item, err := c.client.Get(popupKey(name))
	if err != nil {
		return nil, false
	}
	var card models.UserCard
	if err := json.Unmarshal(item.Value, &card); err != nil {
		return nil, false
	}
	return &card, true
}

func (c *MemcachedPopupCache) Set(card *models.UserCard) error {
	value, err := json.Marshal(card)
	if err != nil {
		return err
	}
	return c.client.Set(&memcache.Item{
		Key:        popupKey(card.Name),
		Value:      value,
		Expiration: 300,
	})
}

func (c *MemcachedPopupCache) Invalidate(names ...string) error {
	var errs []error
	for _, name := range names {
		if err := c.client.Delete(popupKey(name)); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPopupCache never stores anything.
type NopPopupCache struct{}

func (NopPopupCache) Get(string) (*models.UserCard, bool) { return nil, false }
func (NopPopupCache) Set(*models.UserCard) error          { return nil }
func (NopPopupCache) Invalidate(...string) error          { return nil }
