package skill

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListSkills(context context.Context) ([]*Category, error) {
	return service.repo.ListSkills(context)
}

func (service *Service) GetSkill(context context.Context, id int) (*Skill, error) {
	return service.repo.GetSkillByID(context, id)
}

func (service *Service) GetSkillBySlug(context context.Context, slug string) (*Skill, error) {
	return service.repo.GetSkillBySlug(context, slug)
}
