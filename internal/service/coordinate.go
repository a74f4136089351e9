package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiruna/internal/model"
	"kiruna/internal/repository"
	"kiruna/internal/validation"
)

// CoordinateInput is the body of a coordinate creation. Coordinates holds
// [lon, lat] for a Point and [[lon, lat], ...] for a Polygon.
type CoordinateInput struct {
	Name        string             `json:"name" validate:"required,notblank,max=200"`
	Type        model.GeometryType `json:"type" validate:"required,oneof=Point Polygon"`
	Coordinates json.RawMessage    `json:"coordinates" validate:"required"`
}

// CoordinateService manages the geometries documents are placed on.
type CoordinateService interface {
	Create(ctx context.Context, in CoordinateInput) (*model.Coordinate, error)
	Get(ctx context.Context, id string) (*model.Coordinate, error)
	List(ctx context.Context) ([]model.Coordinate, error)
	// Delete removes a coordinate no document points at.
	Delete(ctx context.Context, id string) error
}

type coordinateService struct {
	repo repository.CoordinateRepository
	now  func() time.Time
}

func NewCoordinateService(repo repository.CoordinateRepository) CoordinateService {
	return &coordinateService{repo: repo, now: time.Now}
}

func (s *coordinateService) Create(ctx context.Context, in CoordinateInput) (*model.Coordinate, error) {
	errs := validation.Errors{}
	validation.Into(errs, in)

	var positions []model.Position
	_, badType := errs["type"]
	_, badCoords := errs["coordinates"]
	if !badType && !badCoords {
		var msg string
		if positions, msg = decodeGeometry(in.Type, in.Coordinates); msg != "" {
			errs.Add("coordinates", msg)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &model.Coordinate{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Positions: positions,
		CreatedAt: s.now().UTC(),
	})
}

// decodeGeometry returns the stored positions, or a message describing why
// raw is not a valid geometry of type t.
func decodeGeometry(t model.GeometryType, raw json.RawMessage) ([]model.Position, string) {
	positions, err := model.DecodePositions(t, raw)
	if err != nil {
		return nil, strings.TrimPrefix(err.Error(), model.ErrInvalidGeometry.Error()+": ")
	}
	for _, p := range positions {
		if !p.Valid() {
			return nil, "longitude must be within [-180, 180] and latitude within [-90, 90]"
		}
	}
	if t == model.GeometryPolygon {
		if model.DistinctPositions(positions) < 3 {
			return nil, "polygon needs at least 3 distinct positions"
		}
		positions = model.CloseRing(positions)
	}
	return positions, ""
}

func (s *coordinateService) Get(ctx context.Context, id string) (*model.Coordinate, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "coordinate", id)
	}
	return c, nil
}

func (s *coordinateService) List(ctx context.Context) ([]model.Coordinate, error) {
	return s.repo.List(ctx)
}

func (s *coordinateService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	used, err := s.repo.Referenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrCoordinateInUse
	}
	// The foreign key still guards against a document attached in between.
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrCoordinateInUse
		}
		return notFound(err, "coordinate", id)
	}
	return nil
}
