package skill

import "context"

type Repository interface {
	ListSkills(context context.Context) ([]*Category, error)
	GetSkillByID(context context.Context, id int) (*Skill, error)
	GetSkillBySlug(context context.Context, slug string) (*Skill, error)
}
