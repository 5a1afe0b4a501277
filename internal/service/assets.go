package service

import (
	"context"
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ObjectStore is the slice of the asset host the upload and cleanup paths
// consume. Keys extracted from URLs carry no file extension, so removal
// matches by prefix up to the extension dot rather than exact key.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	RemoveByPrefix(ctx context.Context, prefix string) (int, error)
}

// Outcomes of a best-effort asset deletion. A missing object counts as
// success; an error after all retries is recorded, never escalated.
const (
	AssetDeleted  = "deleted"
	AssetNotFound = "not_found"
	AssetError    = "error"
	AssetSkipped  = "skipped"
)

// AssetResult records the outcome of one asset deletion attempt chain.
type AssetResult struct {
	URL      string `json:"url"`
	Key      string `json:"key,omitempty"`
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
}

// DeletionReport summarizes a cascading delete.
type DeletionReport struct {
	PostsDeleted    int64         `json:"posts_deleted"`
	CommentsDeleted int64         `json:"comments_deleted"`
	CardsDeleted    int64         `json:"cards_deleted"`
	Assets          []AssetResult `json:"assets"`
}

// AssetKeyMarker is the path segment after which the object key starts in
// a hosted-asset URL. Uploads store objects under this prefix so their
// public URLs stay extractable.
const AssetKeyMarker = "upload"

const (
	assetDeleteAttempts = 3
	assetDeleteBackoff  = time.Second
)

var assetVersionSegment = regexp.MustCompile(`^v\d+$`)

// ErrNotHostedAsset means the URL does not point into our object store.
var ErrNotHostedAsset = errors.New("url does not reference a hosted asset")

// ObjectKeyFromURL extracts the store key from a hosted-asset URL: the path
// after the upload marker, minus an optional v<digits> version segment and
// the file extension.
func ObjectKeyFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrNotHostedAsset
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	marker := -1
	for i, segment := range segments {
		if segment == AssetKeyMarker {
			marker = i
			break
		}
	}
	if marker == -1 || marker == len(segments)-1 {
		return "", ErrNotHostedAsset
	}

	rest := segments[marker+1:]
	if assetVersionSegment.MatchString(rest[0]) {
		rest = rest[1:]
		if len(rest) == 0 {
			return "", ErrNotHostedAsset
		}
	}

	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))

	key := strings.Join(rest, "/")
	if key == "" {
		return "", ErrNotHostedAsset
	}
	return key, nil
}

// IsExternalAsset reports whether the URL lives on a host we reference but
// do not own (OAuth avatars, default-image CDNs). Such assets are only ever
// dereferenced.
func IsExternalAsset(rawURL string, hosts []string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return false
	}
	hostname := parsed.Hostname()
	for _, host := range hosts {
		if hostname == host || strings.HasSuffix(hostname, "."+host) {
			return true
		}
	}
	return false
}

// AssetCleaner deletes hosted assets with bounded retries. Failures are
// logged and reported, never propagated: primary-record deletion must not
// be blocked by asset cleanup.
type AssetCleaner struct {
	store    ObjectStore
	attempts int
	backoff  time.Duration
	sleep    func(time.Duration)
}

// NewAssetCleaner creates a cleaner with 3 attempts and 1s backoff.
func NewAssetCleaner(store ObjectStore) *AssetCleaner {
	return &AssetCleaner{
		store:    store,
		attempts: assetDeleteAttempts,
		backoff:  assetDeleteBackoff,
		sleep:    time.Sleep,
	}
}

// Delete removes the asset behind rawURL, returning the tri-state outcome.
func (c *AssetCleaner) Delete(ctx context.Context, rawURL string) AssetResult {
	result := AssetResult{URL: rawURL}

	key, err := ObjectKeyFromURL(rawURL)
	if err != nil {
		result.Outcome = AssetSkipped
		log.Debug().Str("url", rawURL).Msg("no extractable asset key, skipping deletion")
		return result
	}
	result.Key = key

	// Extracted keys carry no extension while stored objects always do.
	// Ending the prefix at the extension dot keeps a key from matching a
	// longer sibling key that merely shares its leading characters.
	prefix := AssetKeyMarker + "/" + key + "."
	for attempt := 1; attempt <= c.attempts; attempt++ {
		result.Attempts = attempt

		removed, err := c.store.RemoveByPrefix(ctx, prefix)
		if err == nil {
			if removed == 0 {
				result.Outcome = AssetNotFound
			} else {
				result.Outcome = AssetDeleted
			}
			return result
		}

		log.Warn().Err(err).Str("key", key).Int("attempt", attempt).Msg("asset deletion failed")
		if attempt < c.attempts {
			c.sleep(c.backoff)
		}
	}

	result.Outcome = AssetError
	log.Error().Str("url", rawURL).Str("key", key).Msg("asset deletion abandoned after retries")
	return result
}
