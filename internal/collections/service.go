package collections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Supraja1508/Backend/internal/apperr"
	"github.com/Supraja1508/Backend/internal/document"
	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is the collection directory: the per-owner registry of collection
// name, declared schema and owner that the document service consults.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: func() time.Time { return time.Now().UTC() }}
}

// Create persists a new collection owned by ownerID. Names are not checked
// for uniqueness.
func (s *Service) Create(ctx context.Context, ownerID, name string, decl schema.Declaration) (*Collection, error) {
	if strings.TrimSpace(name) == "" || len(decl) == 0 {
		return nil, apperr.InvalidInput("Name and valid schema required")
	}
	if ownerID == "" {
		return nil, apperr.InvalidInput("owner is required")
	}
	for _, f := range decl {
		if f.Name == "" {
			return nil, apperr.InvalidInput("schema field names must not be empty")
		}
		if document.IsReserved(f.Name) || strings.HasPrefix(f.Name, "$") || strings.Contains(f.Name, ".") {
			return nil, apperr.InvalidInput(fmt.Sprintf("schema field name %q is not allowed", f.Name))
		}
		if !f.Tag.Known() {
			logger.Warnf("collection %q declares field %q with unknown type %q; stored as mixed, writes to it will be rejected", name, f.Name, f.Tag)
		}
	}
	now := s.now()
	c := &Collection{
		Name:      name,
		Schema:    decl,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperr.Internal("Failed to create collection", err)
	}
	metrics.CollectionsCreated.Inc()
	logger.Debugf("collection created id=%s name=%q owner=%s fields=%d", c.ID.Hex(), c.Name, ownerID, len(decl))
	return c, nil
}

// Resolve looks a collection up by its identifier. Malformed identifiers are
// reported as not found.
func (s *Service) Resolve(ctx context.Context, id string) (*Collection, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Collection")
	}
	c, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Collection")
		}
		return nil, apperr.Internal("Failed to resolve collection", err)
	}
	return c, nil
}

// ResolveOwned resolves id and checks that principal owns it, in that order.
func (s *Service) ResolveOwned(ctx context.Context, id, principal string) (*Collection, error) {
	c, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Authorize(c, principal) {
		return nil, apperr.Forbidden()
	}
	return c, nil
}

// ListByOwner returns the collections owned by ownerID, oldest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*Collection, error) {
	out, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("Failed to list collections", err)
	}
	return out, nil
}
