package controller

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chatterm/api"
	"chatterm/models"
)

// DefaultContactLimit is how many directory entries one fetch asks for.
const DefaultContactLimit = 30

// DirectoryFetcher lists the user directory. An empty or failed remote
// result is replaced outright with the built-in sample set, so the
// contacts screen is never empty against a fresh backend. Concurrent
// duplicate fetches (a screen re-mounted mid-flight) coalesce into a
// single request.
type DirectoryFetcher struct {
	svc   api.Service
	log   *zap.Logger
	group singleflight.Group
}

func NewDirectoryFetcher(svc api.Service, log *zap.Logger) *DirectoryFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryFetcher{svc: svc, log: log}
}

// ListContacts returns up to limit directory entries, or the sample
// set when the remote list is empty or erroring. The remote order is
// preserved as-is.
func (f *DirectoryFetcher) ListContacts(limit int) []models.Contact {
	if limit <= 0 {
		limit = DefaultContactLimit
	}

	v, err, _ := f.group.Do(fmt.Sprintf("contacts:%d", limit), func() (any, error) {
		return f.svc.ListUsers(limit)
	})
	if err != nil {
		f.log.Warn("directory fetch failed, using samples", zap.Error(&FetchError{Err: err}))
		return models.SampleContacts()
	}
	contacts := v.([]models.Contact)
	if len(contacts) == 0 {
		return models.SampleContacts()
	}
	return contacts
}
