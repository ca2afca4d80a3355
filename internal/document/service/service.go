// Package service implements document operations against user-defined
// collections. Every operation resolves the collection, checks ownership,
// validates the payload where it applies, resolves the storage accessor and
// only then touches storage, stopping at the first failure.
package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Supraja1508/Backend/internal/apperr"
	"github.com/Supraja1508/Backend/internal/collections"
	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/document/repository"
	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/metrics"
)

const DefaultLimit = 10

// Directory resolves a collection and checks that principal owns it.
type Directory interface {
	ResolveOwned(ctx context.Context, id, principal string) (*collections.Collection, error)
}

// Resolver hands out the storage accessor bound to a collection.
type Resolver interface {
	Resolve(ctx context.Context, coll *collections.Collection) (repository.Accessor, error)
}

// ExportResult describes an uploaded export.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Exporter uploads a snapshot of documents somewhere a client can fetch it.
type Exporter interface {
	Export(ctx context.Context, collection string, docs []*document.Document) (*ExportResult, error)
}

// ListRequest carries raw list parameters. Page and Limit are parsed and
// checked only after the collection has been authorized.
type ListRequest struct {
	Page    string
	Limit   string
	SortBy  string
	Order   string
	Filters map[string]any
}

type Service struct {
	dir          Directory
	models       Resolver
	exporter     Exporter
	defaultLimit int64
}

type Option func(*Service)

func WithExporter(e Exporter) Option { return func(s *Service) { s.exporter = e } }

func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = int64(n)
		}
	}
}

func New(dir Directory, models Resolver, opts ...Option) *Service {
	s := &Service{dir: dir, models: models, defaultLimit: DefaultLimit}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CanExport reports whether an exporter is configured.
func (s *Service) CanExport() bool { return s.exporter != nil }

func (s *Service) List(ctx context.Context, collectionID, principal string, req ListRequest) (docs []*document.Document, err error) {
	defer observe("list", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return nil, err
	}
	q, err := s.buildQuery(req)
	if err != nil {
		return nil, err
	}
	acc, err := s.accessor(ctx, coll, "Failed to fetch documents")
	if err != nil {
		return nil, err
	}
	docs, err = acc.Find(ctx, q)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch documents", err)
	}
	return docs, nil
}

func (s *Service) Create(ctx context.Context, collectionID, principal string, payload map[string]any) (doc *document.Document, err error) {
	defer observe("create", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if verr := schema.Compile(coll.Schema).Validator.Validate(payload); verr != nil {
		var fe *schema.FieldError
		if errors.As(verr, &fe) {
			return nil, apperr.Validation(fe.Field, string(fe.Expected))
		}
		return nil, apperr.InvalidInput(verr.Error())
	}
	acc, err := s.accessor(ctx, coll, "Failed to create document")
	if err != nil {
		return nil, err
	}
	doc, err = acc.Insert(ctx, payload)
	if err != nil {
		return nil, apperr.Internal("Failed to create document", err)
	}
	logger.Debugf("document %s created in %q by %s", doc.ID, coll.Name, principal)
	return doc, nil
}

func (s *Service) Get(ctx context.Context, collectionID, documentID, principal string) (doc *document.Document, err error) {
	defer observe("get", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return nil, err
	}
	acc, err := s.accessor(ctx, coll, "Failed to get document")
	if err != nil {
		return nil, err
	}
	doc, err = acc.FindByID(ctx, documentID)
	return doc, storageErr(err, "Failed to get document")
}

// Update merges partial into the stored document. The payload is not
// validated against the declared types; storage still casts it.
func (s *Service) Update(ctx context.Context, collectionID, documentID, principal string, partial map[string]any) (doc *document.Document, err error) {
	defer observe("update", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return nil, err
	}
	acc, err := s.accessor(ctx, coll, "Failed to update document")
	if err != nil {
		return nil, err
	}
	if partial == nil {
		partial = map[string]any{}
	}
	doc, err = acc.UpdateByID(ctx, documentID, partial)
	return doc, storageErr(err, "Failed to update document")
}

func (s *Service) Delete(ctx context.Context, collectionID, documentID, principal string) (err error) {
	defer observe("delete", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return err
	}
	acc, err := s.accessor(ctx, coll, "Failed to delete document")
	if err != nil {
		return err
	}
	_, err = acc.DeleteByID(ctx, documentID)
	return storageErr(err, "Failed to delete document")
}

// Export uploads every document of the collection through the configured
// exporter.
func (s *Service) Export(ctx context.Context, collectionID, principal string) (res *ExportResult, err error) {
	defer observe("export", &err)
	coll, err := s.dir.ResolveOwned(ctx, collectionID, principal)
	if err != nil {
		return nil, err
	}
	if s.exporter == nil {
		return nil, apperr.Internal("Failed to export documents", errors.New("export is not configured"))
	}
	acc, err := s.accessor(ctx, coll, "Failed to export documents")
	if err != nil {
		return nil, err
	}
	docs, err := acc.Find(ctx, repository.Query{SortBy: document.KeyID})
	if err != nil {
		return nil, apperr.Internal("Failed to export documents", err)
	}
	res, err = s.exporter.Export(ctx, coll.Name, docs)
	if err != nil {
		return nil, apperr.Internal("Failed to export documents", err)
	}
	logger.Infof("exported %d documents from %q to %s", res.Count, coll.Name, res.Key)
	return res, nil
}

func (s *Service) accessor(ctx context.Context, coll *collections.Collection, msg string) (repository.Accessor, error) {
	acc, err := s.models.Resolve(ctx, coll)
	if err != nil {
		return nil, apperr.Internal(msg, err)
	}
	return acc, nil
}

func (s *Service) buildQuery(req ListRequest) (repository.Query, error) {
	page, err := positive(req.Page, 1, "page")
	if err != nil {
		return repository.Query{}, err
	}
	limit, err := positive(req.Limit, s.defaultLimit, "limit")
	if err != nil {
		return repository.Query{}, err
	}
	if page-1 > math.MaxInt64/limit {
		return repository.Query{}, apperr.InvalidInput("page is out of range for the given limit")
	}
	sortBy := strings.TrimSpace(req.SortBy)
	if sortBy == "" {
		sortBy = document.KeyID
	}
	return repository.Query{
		Filters: req.Filters,
		Skip:    (page - 1) * limit,
		Limit:   limit,
		SortBy:  sortBy,
		Desc:    req.Order == "desc",
	}, nil
}

func positive(raw string, def int64, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, apperr.InvalidInput(name + " must be a positive integer")
	}
	return n, nil
}

func storageErr(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("Document")
	default:
		return apperr.Internal(msg, err)
	}
}

func observe(op string, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = apperr.KindOf(*err).String()
	}
	metrics.DocumentOps.WithLabelValues(op, outcome).Inc()
}
