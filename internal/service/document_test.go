package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kiruna/internal/cache"
	cacheMocks "kiruna/internal/cache/mocks"
	"kiruna/internal/model"
	"kiruna/internal/repository"
	repoMocks "kiruna/internal/repository/mocks"
	"kiruna/internal/validation"
)

const (
	stakeholderLKAB = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0001"
	stakeholderCity = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0002"
	typeAgreement   = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0101"
	otherDocument   = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0201"
	mediaPlan       = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0301"
	coordTownHall   = "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0401"
)

type documentMocks struct {
	docs   *repoMocks.MockDocumentRepository
	shs    *repoMocks.MockStakeholderRepository
	types  *repoMocks.MockDocumentTypeRepository
	media  *repoMocks.MockMediaRepository
	coords *repoMocks.MockCoordinateRepository
	cache  *cacheMocks.MockCache
}

func newDocumentService(t *testing.T) (*documentService, documentMocks) {
	t.Helper()
	m := documentMocks{
		docs:   new(repoMocks.MockDocumentRepository),
		shs:    new(repoMocks.MockStakeholderRepository),
		types:  new(repoMocks.MockDocumentTypeRepository),
		media:  new(repoMocks.MockMediaRepository),
		coords: new(repoMocks.MockCoordinateRepository),
		cache:  new(cacheMocks.MockCache),
	}
	svc := NewDocumentService(DocumentDeps{
		Documents:    m.docs,
		Stakeholders: m.shs,
		Types:        m.types,
		Media:        m.media,
		Coordinates:  m.coords,
		Cache:        m.cache,
	}).(*documentService)
	svc.now = func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		m.docs.AssertExpectations(t)
		m.shs.AssertExpectations(t)
		m.types.AssertExpectations(t)
		m.media.AssertExpectations(t)
		m.coords.AssertExpectations(t)
		m.cache.AssertExpectations(t)
	})
	return svc, m
}

func validInput() DocumentInput {
	return DocumentInput{
		Title:              "Detailed plan for the new town centre",
		Stakeholders:       []string{stakeholderLKAB, stakeholderCity},
		Scale:              model.ScaleArchitectural,
		ArchitecturalScale: "1:1000",
		Type:               typeAgreement,
		Date:               "2014-06",
		Language:           "Swedish",
		Connections:        []ConnectionInput{{Document: otherDocument, Type: model.ConnectionDirect}},
		Media:              []string{mediaPlan},
		Coordinates:        coordTownHall,
	}
}

func (m documentMocks) referencesExist(ctx context.Context) {
	m.shs.On("FindByIDs", ctx, []string{stakeholderLKAB, stakeholderCity}).
		Return([]model.Stakeholder{{ID: stakeholderLKAB, Name: "LKAB"}, {ID: stakeholderCity, Name: "Municipality"}}, nil)
	m.types.On("FindByIDs", ctx, []string{typeAgreement}).
		Return([]model.DocumentType{{ID: typeAgreement, Name: "Agreement"}}, nil)
	m.media.On("FindByIDs", ctx, []string{mediaPlan}).
		Return([]model.Media{{ID: mediaPlan}}, nil)
	m.coords.On("FindByID", ctx, coordTownHall).
		Return(&model.Coordinate{ID: coordTownHall}, nil)
	m.docs.On("ExistingIDs", ctx, []string{otherDocument}).
		Return([]string{otherDocument}, nil)
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.referencesExist(ctx)

		var createdID string
		m.docs.On("Create", ctx, mock.MatchedBy(func(d *model.DocumentDraft) bool {
			createdID = d.ID
			return d.Title == "Detailed plan for the new town centre" &&
				d.DateFrom.Equal(time.Date(2014, time.June, 1, 0, 0, 0, 0, time.UTC)) &&
				d.DateTo.Equal(time.Date(2014, time.June, 30, 0, 0, 0, 0, time.UTC)) &&
				d.CoordinateID == coordTownHall &&
				d.CreatedAt.Equal(svc.now())
		})).Return(nil)
		m.cache.On("Delete", ctx, []string{cache.KeyGraph}).Return(nil)
		m.docs.On("FindByID", ctx, mock.AnythingOfType("string")).
			Return(&model.Document{ID: "generated", Title: "Detailed plan for the new town centre"}, nil)

		doc, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "Detailed plan for the new town centre", doc.Title)
		assert.NotEmpty(t, createdID)
	})

	fieldErrors := []struct {
		name   string
		mutate func(in *DocumentInput)
		field  string
		msg    string
	}{
		{"ratio missing", func(in *DocumentInput) { in.ArchitecturalScale = "" }, "architecturalScale", "is required when scale is ARCHITECTURAL"},
		{"ratio on text scale", func(in *DocumentInput) { in.Scale = model.ScaleText }, "architecturalScale", "must be empty unless scale is ARCHITECTURAL"},
		{"malformed ratio", func(in *DocumentInput) { in.ArchitecturalScale = "1:0" }, "architecturalScale", "must have the form 1:<number>"},
		{"empty stakeholders", func(in *DocumentInput) { in.Stakeholders = []string{} }, "stakeholders", "must contain at least 1 item(s)"},
		{"duplicate stakeholders", func(in *DocumentInput) { in.Stakeholders = []string{stakeholderLKAB, stakeholderLKAB} }, "stakeholders", "must not contain duplicates"},
		{"next month", func(in *DocumentInput) { in.Date = "2024-04" }, "date", "must be YYYY, YYYY-MM or YYYY-MM-DD and not in the future"},
		{"impossible date", func(in *DocumentInput) { in.Date = "2023-02-30" }, "date", "must be YYYY, YYYY-MM or YYYY-MM-DD and not in the future"},
		{"unknown scale", func(in *DocumentInput) { in.Scale = "HUGE" }, "scale", "must be one of: TEXT, CONCEPT, BLUEPRINTS/ACTUALS, ARCHITECTURAL"},
		{"bad connection type", func(in *DocumentInput) { in.Connections[0].Type = "CAUSAL" }, "connections[0].type", "must be one of: DIRECT, COLLATERAL, PROJECTION, UPDATE"},
		{
			"duplicate connection",
			func(in *DocumentInput) { in.Connections = append(in.Connections, in.Connections[0]) },
			"connections[1]", "duplicates an earlier connection",
		},
	}
	for _, tt := range fieldErrors {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newDocumentService(t)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			errs, ok := validation.As(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tt.msg, errs[tt.field], "%v", errs)
		})
	}

	t.Run("same target with another type is allowed", func(t *testing.T) {
		svc, m := newDocumentService(t)
		in := validInput()
		in.Connections = append(in.Connections, ConnectionInput{Document: otherDocument, Type: model.ConnectionUpdate})

		m.shs.On("FindByIDs", ctx, in.Stakeholders).
			Return([]model.Stakeholder{{ID: stakeholderLKAB}, {ID: stakeholderCity}}, nil)
		m.types.On("FindByIDs", ctx, []string{typeAgreement}).Return([]model.DocumentType{{ID: typeAgreement}}, nil)
		m.media.On("FindByIDs", ctx, in.Media).Return([]model.Media{{ID: mediaPlan}}, nil)
		m.coords.On("FindByID", ctx, coordTownHall).Return(&model.Coordinate{ID: coordTownHall}, nil)
		m.docs.On("ExistingIDs", ctx, []string{otherDocument, otherDocument}).Return([]string{otherDocument}, nil)
		m.docs.On("Create", ctx, mock.Anything).Return(nil)
		m.cache.On("Delete", ctx, []string{cache.KeyGraph}).Return(nil)
		m.docs.On("FindByID", ctx, mock.Anything).Return(&model.Document{}, nil)

		_, err := svc.Create(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("unknown references", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.shs.On("FindByIDs", ctx, []string{stakeholderLKAB, stakeholderCity}).
			Return([]model.Stakeholder{{ID: stakeholderLKAB}}, nil)
		m.types.On("FindByIDs", ctx, []string{typeAgreement}).Return([]model.DocumentType{}, nil)
		m.media.On("FindByIDs", ctx, []string{mediaPlan}).Return([]model.Media{}, nil)
		m.coords.On("FindByID", ctx, coordTownHall).Return(nil, sql.ErrNoRows)
		m.docs.On("ExistingIDs", ctx, []string{otherDocument}).Return([]string{}, nil)

		_, err := svc.Create(ctx, validInput())
		errs, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "unknown stakeholder(s): "+stakeholderCity, errs["stakeholders"])
		assert.Equal(t, "unknown document type", errs["type"])
		assert.Equal(t, "unknown media: "+mediaPlan, errs["media"])
		assert.Equal(t, "unknown coordinate", errs["coordinates"])
		assert.Equal(t, "unknown document", errs["connections[0].document"])
	})

	t.Run("reference lookup failure", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.shs.On("FindByIDs", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.Create(ctx, validInput())
		assert.ErrorContains(t, err, "load stakeholders: db down")
		_, isValidation := validation.As(err)
		assert.False(t, isValidation)
	})

	t.Run("current month is not in the future", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.referencesExist(ctx)

		in := validInput()
		in.Date = "2024-03"
		assert.NoError(t, svc.check(ctx, "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0999", in))
	})

	t.Run("ids in any case resolve to the canonical form", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.referencesExist(ctx)
		m.docs.On("Create", ctx, mock.MatchedBy(func(d *model.DocumentDraft) bool {
			return d.StakeholderIDs[0] == stakeholderLKAB && d.TypeID == typeAgreement &&
				d.Connections[0].Document == otherDocument && d.CoordinateID == coordTownHall
		})).Return(nil)
		m.cache.On("Delete", ctx, []string{cache.KeyGraph}).Return(nil)
		m.docs.On("FindByID", ctx, mock.Anything).Return(&model.Document{}, nil)

		in := validInput()
		in.Stakeholders = []string{strings.ToUpper(stakeholderLKAB), stakeholderCity}
		in.Type = strings.ToUpper(typeAgreement)
		in.Media = []string{"{" + mediaPlan + "}"}
		in.Coordinates = strings.ToUpper(coordTownHall)
		in.Connections[0].Document = strings.ToUpper(otherDocument)

		_, err := svc.Create(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("constraint rejected by the database", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.referencesExist(ctx)
		m.docs.On("Create", ctx, mock.Anything).Return(repository.ErrConstraint)

		_, err := svc.Create(ctx, validInput())
		errs, ok := validation.As(err)
		require.True(t, ok, "%v", err)
		assert.Contains(t, errs, "connections")
	})

	t.Run("reference removed before the write", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.referencesExist(ctx)
		m.docs.On("Create", ctx, mock.Anything).Return(repository.ErrDanglingReference)

		_, err := svc.Create(ctx, validInput())
		errs, ok := validation.As(err)
		require.True(t, ok)
		assert.Contains(t, errs, "references")
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	id := "6f1c2b8e-0a51-4f0e-9d41-0c6a3c1e0999"
	created := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("FindByID", ctx, id).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, id, validInput())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("self link", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("FindByID", ctx, id).Return(&model.Document{ID: id, CreatedAt: created}, nil)

		in := validInput()
		in.Connections = []ConnectionInput{{Document: id, Type: model.ConnectionUpdate}}

		_, err := svc.Update(ctx, id, in)
		errs, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "must not reference the document itself", errs["connections[0].document"])
	})

	t.Run("self link with the id in another case", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("FindByID", ctx, id).Return(&model.Document{ID: id, CreatedAt: created}, nil)

		in := validInput()
		in.Connections = []ConnectionInput{{Document: id, Type: model.ConnectionDirect}}

		_, err := svc.Update(ctx, strings.ToUpper(id), in)
		errs, ok := validation.As(err)
		require.True(t, ok, "%v", err)
		assert.Equal(t, "must not reference the document itself", errs["connections[0].document"])

		errs, ok = validation.As(svc.check(ctx, strings.ToUpper(otherDocument), DocumentInput{
			Connections: []ConnectionInput{{Document: otherDocument, Type: model.ConnectionDirect}},
		}))
		require.True(t, ok)
		assert.Equal(t, "must not reference the document itself", errs["connections[0].document"])
	})

	t.Run("keeps creation time", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("FindByID", ctx, id).Return(&model.Document{ID: id, CreatedAt: created}, nil)
		m.referencesExist(ctx)
		m.docs.On("Update", ctx, mock.MatchedBy(func(d *model.DocumentDraft) bool {
			return d.ID == id && d.CreatedAt.Equal(created) && d.UpdatedAt.Equal(svc.now())
		})).Return(nil)
		m.cache.On("Delete", ctx, []string{cache.KeyGraph}).Return(nil)

		doc, err := svc.Update(ctx, id, validInput())
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _ := newDocumentService(t)
		_, err := svc.Update(ctx, "", validInput())
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and filter", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("List", ctx, mock.MatchedBy(func(f repository.DocumentFilter) bool {
			return f.Title == "plan" &&
				f.From.Equal(time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
				f.To.Equal(time.Date(2015, time.February, 28, 0, 0, 0, 0, time.UTC)) &&
				f.Scale == model.ScaleConcept
		}), repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Document]{Items: []model.Document{{ID: "d1"}}, Total: 1}, nil)

		res, err := svc.List(ctx, DocumentQuery{Title: " plan ", Scale: "CONCEPT", StartDate: "2010", EndDate: "2015-02", Offset: -3})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, 0, res.Offset)
	})

	t.Run("limit is capped", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("List", ctx, repository.DocumentFilter{}, repository.PageQuery{Limit: maxPageSize, Offset: 20}).
			Return(&repository.PageResult[model.Document]{}, nil)

		res, err := svc.List(ctx, DocumentQuery{Limit: 1000, Offset: 20})
		require.NoError(t, err)
		assert.Equal(t, maxPageSize, res.Limit)
	})

	t.Run("invalid filters", func(t *testing.T) {
		svc, _ := newDocumentService(t)

		_, err := svc.List(ctx, DocumentQuery{StartDate: "2015", EndDate: "2014-12", Stakeholders: []string{"lkab"}})
		errs, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "must not be before startDate", errs["endDate"])
		assert.Equal(t, "must be a valid id", errs["stakeholders[0]"])

		_, err = svc.List(ctx, DocumentQuery{StartDate: "last year"})
		errs, _ = validation.As(err)
		assert.Equal(t, "must be YYYY, YYYY-MM or YYYY-MM-DD", errs["startDate"])
	})
}

func TestDocumentService_Connections(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.docs.On("ExistingIDs", ctx, []string{"d1"}).Return([]string{}, nil)

		_, err := svc.Connections(ctx, "d1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		svc, m := newDocumentService(t)
		want := &model.DocumentConnections{
			Outgoing: []model.Connection{{Document: "d2", Type: model.ConnectionDirect}},
			Incoming: []model.Connection{},
		}
		m.docs.On("ExistingIDs", ctx, []string{"d1"}).Return([]string{"d1"}, nil)
		m.docs.On("Connections", ctx, "d1").Return(want, nil)

		got, err := svc.Connections(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()
	svc, m := newDocumentService(t)

	m.docs.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
	m.docs.On("FindByID", ctx, "broken").Return(nil, errors.New("conn reset"))

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "broken")
	assert.EqualError(t, err, "conn reset")

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}
