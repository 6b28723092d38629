package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrMalformedDataURL = errors.New("malformed data URL")
	ErrUnsupportedMedia = errors.New("media must be a base64 data URL or an http(s) link")
)

var linkPattern = regexp.MustCompile(`^https?://`)

// DataURL is a decoded "data:<type>;base64,<payload>" string.
type DataURL struct {
	ContentType string
	Data        []byte
}

// IsDataURL reports whether s is an inline base64 data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsLink reports whether s is an absolute http(s) URL.
func IsLink(s string) bool {
	return validation.Validate(s,
		validation.Required,
		validation.Match(linkPattern),
		is.URL,
	) == nil
}

// DecodedSize returns the payload size of an inline entry. Links count as
// zero; anything that is neither a valid data URL nor a link is rejected.
func DecodedSize(s string) (int, error) {
	if IsLink(s) {
		return 0, nil
	}
	if !IsDataURL(s) {
		return 0, ErrUnsupportedMedia
	}
	parsed, err := ParseDataURL(s)
	if err != nil {
		return 0, err
	}
	return len(parsed.Data), nil
}

func ParseDataURL(s string) (*DataURL, error) {
	if !IsDataURL(s) {
		return nil, ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrMalformedDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}

	contentType := strings.TrimSuffix(header, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &DataURL{ContentType: contentType, Data: data}, nil
}

// MediaStore turns submitted logo/media entries into the values persisted on
// a startup. Discard removes stored values the store itself created; other
// values are ignored.
type MediaStore interface {
	Persist(ctx context.Context, prefix string, entries []string) ([]string, error)
	Discard(ctx context.Context, stored []string)
}

// InlineMediaStore keeps data URLs inline in the database.
type InlineMediaStore struct{}

func (InlineMediaStore) Persist(ctx context.Context, prefix string, entries []string) ([]string, error) {
	for _, entry := range entries {
		if _, err := DecodedSize(entry); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (InlineMediaStore) Discard(ctx context.Context, stored []string) {}

type objectUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// ObjectMediaStore uploads data URLs to object storage and keeps their URLs.
// Entries that are already URLs pass through unchanged.
type ObjectMediaStore struct {
	uploader objectUploader
	images   *ImageProcessor
}

func NewObjectMediaStore(uploader objectUploader) *ObjectMediaStore {
	return &ObjectMediaStore{uploader: uploader}
}

// WithImageProcessor resizes images before upload.
func (s *ObjectMediaStore) WithImageProcessor(p *ImageProcessor) *ObjectMediaStore {
	s.images = p
	return s
}

func (s *ObjectMediaStore) Persist(ctx context.Context, prefix string, entries []string) ([]string, error) {
	out := make([]string, 0, len(entries))
	var uploaded []string

	for _, entry := range entries {
		if !IsDataURL(entry) {
			if !IsLink(entry) {
				s.cleanup(ctx, uploaded)
				return nil, ErrUnsupportedMedia
			}
			out = append(out, entry)
			continue
		}

		parsed, err := ParseDataURL(entry)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}

		data := parsed.Data
		if s.images != nil {
			if data, err = s.images.Fit(data, parsed.ContentType); err != nil {
				s.cleanup(ctx, uploaded)
				return nil, err
			}
		}

		key := prefix + "/" + uuid.NewString() + extensionFor(parsed.ContentType)
		url, err := s.uploader.Upload(ctx, key, data, parsed.ContentType)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, key)
		out = append(out, url)
	}

	return out, nil
}

// Discard deletes the objects behind stored values that point into this
// store's bucket.
func (s *ObjectMediaStore) Discard(ctx context.Context, stored []string) {
	keys := make([]string, 0, len(stored))
	for _, v := range stored {
		if key, ok := s.uploader.KeyFromURL(v); ok {
			keys = append(keys, key)
		}
	}
	s.cleanup(ctx, keys)
}

func (s *ObjectMediaStore) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.uploader.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to remove orphaned media object")
		}
	}
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
