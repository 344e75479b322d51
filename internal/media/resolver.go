package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
)

// Uploader is the slice of the object store the resolver needs.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Resolver decides per photo reference whether it is already a usable remote
// URL or must be fetched and rehosted on the object store.
type Resolver struct {
	fetcher Fetcher
	store   Uploader
	logger  *zap.Logger
}

// NewResolver creates a media resolver
func NewResolver(fetcher Fetcher, store Uploader, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// Resolved is one part's media batch: the descriptors to attach to the
// product, in input order, plus the object keys to delete once the owning
// mutation has succeeded.
type Resolved struct {
	Descriptors []domain.MediaDescriptor
	CleanupKeys []string
}

// rehostExtensions is the raster set whose members get fetched and rehosted.
// Everything else, extensionless references included, is passed through as
// an already-hosted URL. The rule looks inverted but matches what the feed
// actually serves; keep it as is.
var rehostExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// NeedsRehost classifies one photo reference.
func NeedsRehost(ref string) bool {
	clean := ref
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	return rehostExtensions[strings.ToLower(path.Ext(clean))]
}

// Resolve processes one part's photo references. Any single fetch or upload
// failure fails the whole batch: the error propagates so the caller can fail
// the part instead of attaching a partial gallery.
func (r *Resolver) Resolve(ctx context.Context, refs []string) (*Resolved, error) {
	out := &Resolved{
		Descriptors: make([]domain.MediaDescriptor, 0, len(refs)),
	}

	for _, ref := range refs {
		if !NeedsRehost(ref) {
			out.Descriptors = append(out.Descriptors, domain.MediaDescriptor{
				MediaContentType: "IMAGE",
				OriginalSource:   ref,
			})
			continue
		}

		body, contentType, err := r.fetcher.FetchBytes(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}

		key := objectKey(ref)
		publicURL, err := r.store.Upload(ctx, key, body, contentType)
		if err != nil {
			return nil, fmt.Errorf("rehost %s: %w", ref, err)
		}

		r.logger.Debug("Rehosted image", zap.String("url", ref), zap.String("key", key))
		out.Descriptors = append(out.Descriptors, domain.MediaDescriptor{
			MediaContentType: "IMAGE",
			OriginalSource:   publicURL,
		})
		out.CleanupKeys = append(out.CleanupKeys, key)
	}

	return out, nil
}

// objectKey builds a time-derived unique key so repeated syncs of the same
// image never collide in the bucket.
func objectKey(ref string) string {
	clean := ref
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	ext := strings.ToLower(path.Ext(clean))
	return fmt.Sprintf("parts/%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}
