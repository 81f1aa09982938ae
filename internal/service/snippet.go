package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"codepad/internal/language"
	"codepad/internal/model"
	"codepad/internal/repository"
	"codepad/internal/storage"
)

const (
	timestampLayout = "20060102_150405"
	// maxCollisionSuffix bounds the code_<ts>_<n> search within one second.
	maxCollisionSuffix = 99
	snippetContentType = "text/plain; charset=utf-8"
)

var tracer = otel.Tracer("codepad/internal/service")

// SnippetService saves submitted code.
type SnippetService interface {
	// Save writes code verbatim to a new file named after the current time
	// and the extension registered for language. Failures are *Failure with
	// KindIO.
	Save(ctx context.Context, code, language string) (*model.Snippet, error)
}

// snippetService is a concrete implementation of SnippetService.
type snippetService struct {
	store    storage.Storage
	repo     repository.SnippetRepository
	registry *language.Registry
	loc      *time.Location
	now      func() time.Time
}

// SnippetOption customizes a SnippetService.
type SnippetOption func(*snippetService)

// WithClock replaces time.Now as the filename timestamp source.
func WithClock(now func() time.Time) SnippetOption {
	return func(s *snippetService) { s.now = now }
}

// WithLocation sets the time zone filename timestamps are rendered in.
func WithLocation(loc *time.Location) SnippetOption {
	return func(s *snippetService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewSnippetService constructs a new SnippetService.
func NewSnippetService(store storage.Storage, repo repository.SnippetRepository, registry *language.Registry, opts ...SnippetOption) SnippetService {
	s := &snippetService{
		store:    store,
		repo:     repo,
		registry: registry,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// snippetFilename builds code_<stamp>[_<n>]<ext>.
func snippetFilename(stamp string, n int, ext string) string {
	var b strings.Builder
	b.WriteString("code_")
	b.WriteString(stamp)
	if n > 0 {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteString(ext)
	return b.String()
}

func (s *snippetService) Save(ctx context.Context, code, lang string) (*model.Snippet, error) {
	ctx, span := tracer.Start(ctx, "SnippetService.Save")
	defer span.End()

	ext := s.registry.ExtensionFor(lang)
	createdAt := s.now().In(s.loc)
	stamp := createdAt.Format(timestampLayout)
	span.SetAttributes(
		attribute.String("codepad.language", lang),
		attribute.Int("codepad.size", len(code)),
	)

	var (
		info storage.ObjectInfo
		err  error
	)
	for n := 0; n <= maxCollisionSuffix; n++ {
		info, err = s.store.Put(ctx, snippetFilename(stamp, n, ext), strings.NewReader(code), storage.PutObjectOptions{
			Size:        int64(len(code)),
			ContentType: snippetContentType,
			Metadata:    map[string]string{"language": lang},
			IfNotExists: true,
		})
		if !errors.Is(err, storage.ErrObjectExists) {
			break
		}
	}
	if err != nil {
		f := newFailure(KindIO, err, "write snippet")
		span.RecordError(err)
		span.SetStatus(codes.Error, f.Message)
		return nil, f
	}

	snip := &model.Snippet{
		ID:          uuid.New().String(),
		Filename:    info.Key,
		StoragePath: info.Location,
		Language:    lang,
		Extension:   ext,
		Size:        info.Size,
		CreatedAt:   createdAt,
	}
	stored, err := s.repo.Create(ctx, snip)
	if err != nil {
		span.RecordError(err)
		// Rollback: delete the file so a failed save leaves nothing behind.
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			f := newFailure(KindIO, errors.Join(err, delErr), "record snippet (rollback of %s failed)", info.Location)
			span.SetStatus(codes.Error, f.Message)
			return nil, f
		}
		f := newFailure(KindIO, err, "record snippet")
		span.SetStatus(codes.Error, f.Message)
		return nil, f
	}

	span.SetAttributes(attribute.String("codepad.path", stored.StoragePath))
	return stored, nil
}
