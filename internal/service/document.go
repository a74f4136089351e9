package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiruna/internal/cache"
	"kiruna/internal/model"
	"kiruna/internal/repository"
	"kiruna/internal/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ConnectionInput links the document to another one.
type ConnectionInput struct {
	Document string               `json:"document" validate:"required,uuid"`
	Type     model.ConnectionType `json:"type" validate:"required,oneof=DIRECT COLLATERAL PROJECTION UPDATE"`
}

// DocumentInput is the body of a document creation or full update.
// References are ids.
type DocumentInput struct {
	Title              string            `json:"title" validate:"required,notblank,max=300"`
	Stakeholders       []string          `json:"stakeholders" validate:"required,min=1,unique,dive,uuid"`
	Scale              model.Scale       `json:"scale" validate:"required,oneof=TEXT CONCEPT BLUEPRINTS/ACTUALS ARCHITECTURAL"`
	ArchitecturalScale string            `json:"architecturalScale,omitempty" validate:"archscale"`
	Type               string            `json:"type" validate:"required,uuid"`
	Date               string            `json:"date" validate:"required,partialdate"`
	Language           string            `json:"language,omitempty" validate:"max=100"`
	Summary            string            `json:"summary,omitempty"`
	Connections        []ConnectionInput `json:"connections,omitempty" validate:"dive"`
	Media              []string          `json:"media,omitempty" validate:"unique,dive,uuid"`
	Coordinates        string            `json:"coordinates,omitempty" validate:"omitempty,uuid"`
}

// DocumentQuery filters the document list. Dates accept the partial forms of
// an issuance date and bound it inclusively.
type DocumentQuery struct {
	Title        string   `json:"title"`
	Stakeholders []string `json:"stakeholders" validate:"dive,uuid"`
	Type         string   `json:"type" validate:"omitempty,uuid"`
	Scale        string   `json:"scale" validate:"omitempty,oneof=TEXT CONCEPT BLUEPRINTS/ACTUALS ARCHITECTURAL"`
	Language     string   `json:"language"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Limit        int      `json:"limit"`
	Offset       int      `json:"offset"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items  []model.Document `json:"data"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Create validates the input against the data rules and the stored
	// references and returns the populated document.
	Create(ctx context.Context, in DocumentInput) (*model.Document, error)

	// Update replaces every mutable field of an existing document.
	Update(ctx context.Context, id string, in DocumentInput) (*model.Document, error)

	Get(ctx context.Context, id string) (*model.Document, error)

	List(ctx context.Context, q DocumentQuery) (*DocumentListResult, error)

	// Connections returns the links leaving and entering a document.
	Connections(ctx context.Context, id string) (*model.DocumentConnections, error)
}

// DocumentDeps groups the repositories the document service reads references from.
type DocumentDeps struct {
	Documents    repository.DocumentRepository
	Stakeholders repository.StakeholderRepository
	Types        repository.DocumentTypeRepository
	Media        repository.MediaRepository
	Coordinates  repository.CoordinateRepository
	Cache        cache.Cache
}

type documentService struct {
	DocumentDeps
	now func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(deps DocumentDeps) DocumentService {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	return &documentService{DocumentDeps: deps, now: time.Now}
}

func (s *documentService) Create(ctx context.Context, in DocumentInput) (*model.Document, error) {
	id := uuid.NewString()
	in = in.canonical()
	if err := s.check(ctx, id, in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft := toDraft(id, in)
	draft.CreatedAt, draft.UpdatedAt = now, now
	if err := s.Documents.Create(ctx, draft); err != nil {
		return nil, danglingReference(err)
	}
	_ = s.Cache.Delete(ctx, cache.KeyGraph)

	return s.Get(ctx, id)
}

func (s *documentService) Update(ctx context.Context, id string, in DocumentInput) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	id, in = canonicalID(id), in.canonical()
	existing, err := s.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	if err := s.check(ctx, id, in); err != nil {
		return nil, err
	}

	draft := toDraft(id, in)
	draft.CreatedAt = existing.CreatedAt
	draft.UpdatedAt = s.now().UTC()
	if err := s.Documents.Update(ctx, draft); err != nil {
		return nil, danglingReference(notFound(err, "document", id))
	}
	_ = s.Cache.Delete(ctx, cache.KeyGraph)

	return s.Get(ctx, id)
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	d, err := s.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return d, nil
}

func (s *documentService) List(ctx context.Context, q DocumentQuery) (*DocumentListResult, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}

	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Documents.List(ctx, filter, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total, Limit: limit, Offset: offset}, nil
}

func (s *documentService) Connections(ctx context.Context, id string) (*model.DocumentConnections, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	found, err := s.Documents.ExistingIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return s.Documents.Connections(ctx, id)
}

// check applies the field rules, then verifies that every referenced row
// exists. id is the document being written; it may not link to itself.
// Ids are compared in canonical form.
func (s *documentService) check(ctx context.Context, id string, in DocumentInput) error {
	errs := validation.Errors{}
	validation.IntoCtx(validation.WithClock(ctx, s.now), errs, in)

	switch {
	case in.Scale == model.ScaleArchitectural && in.ArchitecturalScale == "":
		errs.Add("architecturalScale", "is required when scale is ARCHITECTURAL")
	case in.Scale != model.ScaleArchitectural && in.ArchitecturalScale != "":
		errs.Add("architecturalScale", "must be empty unless scale is ARCHITECTURAL")
	}

	type link struct {
		doc string
		t   model.ConnectionType
	}
	seen := make(map[link]struct{}, len(in.Connections))
	for i, c := range in.Connections {
		field := fmt.Sprintf("connections[%d]", i)
		if canonicalID(c.Document) == canonicalID(id) {
			errs.Add(field+".document", "must not reference the document itself")
		}
		key := link{canonicalID(c.Document), c.Type}
		if _, dup := seen[key]; dup {
			errs.Add(field, "duplicates an earlier connection")
		}
		seen[key] = struct{}{}
	}

	if len(errs) > 0 {
		return errs
	}
	if err := s.checkReferences(ctx, errs, in); err != nil {
		return err
	}
	return errs.Err()
}

func (s *documentService) checkReferences(ctx context.Context, errs validation.Errors, in DocumentInput) error {
	stakeholders, err := s.Stakeholders.FindByIDs(ctx, in.Stakeholders)
	if err != nil {
		return fmt.Errorf("load stakeholders: %w", err)
	}
	if missing := missingIDs(in.Stakeholders, stakeholders, func(v model.Stakeholder) string { return v.ID }); len(missing) > 0 {
		errs.Add("stakeholders", "unknown stakeholder(s): "+strings.Join(missing, ", "))
	}

	types, err := s.Types.FindByIDs(ctx, []string{in.Type})
	if err != nil {
		return fmt.Errorf("load document type: %w", err)
	}
	if len(types) == 0 {
		errs.Add("type", "unknown document type")
	}

	if len(in.Media) > 0 {
		media, err := s.Media.FindByIDs(ctx, in.Media)
		if err != nil {
			return fmt.Errorf("load media: %w", err)
		}
		if missing := missingIDs(in.Media, media, func(v model.Media) string { return v.ID }); len(missing) > 0 {
			errs.Add("media", "unknown media: "+strings.Join(missing, ", "))
		}
	}

	if in.Coordinates != "" {
		if _, err := s.Coordinates.FindByID(ctx, in.Coordinates); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("load coordinate: %w", err)
			}
			errs.Add("coordinates", "unknown coordinate")
		}
	}

	if len(in.Connections) > 0 {
		targets := make([]string, 0, len(in.Connections))
		for _, c := range in.Connections {
			targets = append(targets, c.Document)
		}
		existing, err := s.Documents.ExistingIDs(ctx, targets)
		if err != nil {
			return fmt.Errorf("load connected documents: %w", err)
		}
		known := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			known[e] = struct{}{}
		}
		for i, c := range in.Connections {
			if _, ok := known[c.Document]; !ok {
				errs.Add(fmt.Sprintf("connections[%d].document", i), "unknown document")
			}
		}
	}
	return nil
}

// missingIDs returns the ids that have no match in found, sorted.
func missingIDs[T any](ids []string, found []T, idOf func(T) string) []string {
	have := make(map[string]struct{}, len(found))
	for _, f := range found {
		have[idOf(f)] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

// danglingReference reports a reference removed between the check and the
// write, or a row the schema constraints rejected.
func danglingReference(err error) error {
	switch {
	case errors.Is(err, repository.ErrDanglingReference):
		return validation.Errors{"references": "a referenced record no longer exists"}
	case errors.Is(err, repository.ErrConstraint):
		return validation.Errors{"connections": "rejected by a data constraint"}
	}
	return err
}

// canonicalID returns the lowercase hyphenated form of a UUID, or id
// unchanged when it does not parse.
func canonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

func canonicalIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = canonicalID(id)
	}
	return out
}

// canonical returns a copy of in with every reference in canonical form.
func (in DocumentInput) canonical() DocumentInput {
	in.Stakeholders = canonicalIDs(in.Stakeholders)
	in.Type = canonicalID(in.Type)
	in.Media = canonicalIDs(in.Media)
	in.Coordinates = canonicalID(in.Coordinates)
	if in.Connections != nil {
		conns := make([]ConnectionInput, len(in.Connections))
		for i, c := range in.Connections {
			conns[i] = ConnectionInput{Document: canonicalID(c.Document), Type: c.Type}
		}
		in.Connections = conns
	}
	return in
}

func toDraft(id string, in DocumentInput) *model.DocumentDraft {
	// Dates were validated by check.
	pd, _ := model.ParsePartialDate(in.Date)

	connections := make([]model.Connection, 0, len(in.Connections))
	for _, c := range in.Connections {
		connections = append(connections, model.Connection{Document: c.Document, Type: c.Type})
	}
	return &model.DocumentDraft{
		ID:                 id,
		Title:              strings.TrimSpace(in.Title),
		StakeholderIDs:     in.Stakeholders,
		Scale:              in.Scale,
		ArchitecturalScale: in.ArchitecturalScale,
		TypeID:             in.Type,
		Date:               in.Date,
		DateFrom:           pd.Start(),
		DateTo:             pd.End(),
		Language:           strings.TrimSpace(in.Language),
		Summary:            in.Summary,
		Connections:        connections,
		MediaIDs:           in.Media,
		CoordinateID:       in.Coordinates,
	}
}

func toFilter(q DocumentQuery) (repository.DocumentFilter, error) {
	errs := validation.Errors{}
	validation.Into(errs, q)

	f := repository.DocumentFilter{
		Title:          strings.TrimSpace(q.Title),
		StakeholderIDs: canonicalIDs(q.Stakeholders),
		TypeID:         canonicalID(q.Type),
		Scale:          model.Scale(q.Scale),
		Language:       strings.TrimSpace(q.Language),
	}
	if q.StartDate != "" {
		pd, err := model.ParsePartialDate(q.StartDate)
		if err != nil {
			errs.Add("startDate", "must be YYYY, YYYY-MM or YYYY-MM-DD")
		} else {
			from := pd.Start()
			f.From = &from
		}
	}
	if q.EndDate != "" {
		pd, err := model.ParsePartialDate(q.EndDate)
		if err != nil {
			errs.Add("endDate", "must be YYYY, YYYY-MM or YYYY-MM-DD")
		} else {
			to := pd.End()
			f.To = &to
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs.Add("endDate", "must not be before startDate")
	}
	return f, errs.Err()
}
