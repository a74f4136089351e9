package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kiruna/internal/cache"
	"kiruna/internal/model"
	"kiruna/internal/repository"
	"kiruna/internal/validation"
)

// ReferenceInput is the body of a stakeholder or document type creation.
type ReferenceInput struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

// StakeholderService manages the stakeholder registry.
type StakeholderService interface {
	Create(ctx context.Context, in ReferenceInput) (*model.Stakeholder, error)
	// List returns every stakeholder ordered by name, served from cache when possible.
	List(ctx context.Context) ([]model.Stakeholder, error)
}

// DocumentTypeService manages the document type registry.
type DocumentTypeService interface {
	Create(ctx context.Context, in ReferenceInput) (*model.DocumentType, error)
	List(ctx context.Context) ([]model.DocumentType, error)
}

type stakeholderService struct {
	repo  repository.StakeholderRepository
	cache cache.Cache
}

func NewStakeholderService(repo repository.StakeholderRepository, c cache.Cache) StakeholderService {
	return &stakeholderService{repo: repo, cache: c}
}

func (s *stakeholderService) Create(ctx context.Context, in ReferenceInput) (*model.Stakeholder, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &model.Stakeholder{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name)})
	if err != nil {
		return nil, duplicateName(err, "stakeholder", in.Name)
	}
	_ = s.cache.Delete(ctx, cache.KeyStakeholders)
	return created, nil
}

func (s *stakeholderService) List(ctx context.Context) ([]model.Stakeholder, error) {
	var cached []model.Stakeholder
	if hit, _ := s.cache.Get(ctx, cache.KeyStakeholders, &cached); hit {
		return cached, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cache.KeyStakeholders, list)
	return list, nil
}

type documentTypeService struct {
	repo  repository.DocumentTypeRepository
	cache cache.Cache
}

func NewDocumentTypeService(repo repository.DocumentTypeRepository, c cache.Cache) DocumentTypeService {
	return &documentTypeService{repo: repo, cache: c}
}

func (s *documentTypeService) Create(ctx context.Context, in ReferenceInput) (*model.DocumentType, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &model.DocumentType{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name)})
	if err != nil {
		return nil, duplicateName(err, "document type", in.Name)
	}
	_ = s.cache.Delete(ctx, cache.KeyDocumentTypes)
	return created, nil
}

func (s *documentTypeService) List(ctx context.Context) ([]model.DocumentType, error) {
	var cached []model.DocumentType
	if hit, _ := s.cache.Get(ctx, cache.KeyDocumentTypes, &cached); hit {
		return cached, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cache.KeyDocumentTypes, list)
	return list, nil
}

func duplicateName(err error, kind, name string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%s %q: %w", kind, strings.TrimSpace(name), ErrAlreadyExists)
	}
	return err
}
