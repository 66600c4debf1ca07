package service

import (
	"context"
	"errors"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"
)

type AnnouncementService interface {
	Create(ctx context.Context, userID uint, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	// ListVisible returns the active announcements a register at the given
	// location should display (global plus location-scoped).
	ListVisible(ctx context.Context, locationID *uint) ([]dto.AnnouncementResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id uint) error
}

type announcementService struct {
	repo repository.AnnouncementRepository
}

func NewAnnouncementService(repo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{repo: repo}
}

func (s *announcementService) Create(ctx context.Context, userID uint, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	a := &model.Announcement{
		Title:      req.Title,
		Body:       req.Body,
		LocationID: req.LocationID,
		UserID:     userID,
		Active:     true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return announcementToResponse(a), nil
}

func (s *announcementService) ListVisible(ctx context.Context, locationID *uint) ([]dto.AnnouncementResponse, error) {
	announcements, err := s.repo.ListForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		out = append(out, *announcementToResponse(&announcements[i]))
	}
	return out, nil
}

func (s *announcementService) Update(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("announcement not found")
	}
	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Body != "" {
		a.Body = req.Body
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return announcementToResponse(a), nil
}

func (s *announcementService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("announcement not found")
		}
		return err
	}
	return nil
}

func announcementToResponse(a *model.Announcement) *dto.AnnouncementResponse {
	return &dto.AnnouncementResponse{
		ID:         a.ID,
		Title:      a.Title,
		Body:       a.Body,
		LocationID: a.LocationID,
		UserID:     a.UserID,
		Active:     a.Active,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
