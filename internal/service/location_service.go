package service

import (
	"context"
	"errors"
	"strings"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"
)

type LocationService interface {
	Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	Get(ctx context.Context, id uint) (*dto.LocationResponse, error)
	List(ctx context.Context) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
}

type locationService struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	l := &model.Location{
		Name:   strings.TrimSpace(req.Name),
		Code:   strings.ToUpper(strings.TrimSpace(req.Code)),
		Active: true,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.New("a location with this code already exists")
		}
		return nil, err
	}
	return locationToResponse(l), nil
}

func (s *locationService) Get(ctx context.Context, id uint) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("location not found")
	}
	return locationToResponse(l), nil
}

func (s *locationService) List(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *locationToResponse(&locations[i]))
	}
	return out, nil
}

func (s *locationService) Update(ctx context.Context, id uint, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("location not found")
	}
	if req.Name != "" {
		l.Name = strings.TrimSpace(req.Name)
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return locationToResponse(l), nil
}

func locationToResponse(l *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{ID: l.ID, Name: l.Name, Code: l.Code, Active: l.Active}
}
