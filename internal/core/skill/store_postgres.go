package skill

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshift/quickshift/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListSkills(context context.Context) ([]*Category, error) {
	cQuery := `SELECT id, name, slug, sortorder FROM core.skillcategory ORDER BY sortorder ASC`
	sQuery := `SELECT id, categoryid, name, slug, description FROM core.skill ORDER BY name ASC`

	cRows, err := repository.db.Query(context, cQuery)
	if err != nil {
		return nil, dberr.Wrap(err, "list_skill_categories")
	}
	defer cRows.Close()

	categories := make([]*Category, 0)
	categoryMap := make(map[int]*Category)

	for cRows.Next() {
		c := &Category{Skills: make([]Skill, 0)}
		if err := cRows.Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_skill_category")
		}
		categories = append(categories, c)
		categoryMap[c.ID] = c
	}
	cRows.Close()

	sRows, err := repository.db.Query(context, sQuery)
	if err != nil {
		return nil, dberr.Wrap(err, "list_skills")
	}
	defer sRows.Close()

	for sRows.Next() {
		s := Skill{}
		if err := sRows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.Description); err != nil {
			return nil, dberr.Wrap(err, "scan_skill")
		}

		if cat, ok := categoryMap[s.CategoryID]; ok {
			cat.Skills = append(cat.Skills, s)
		}
	}

	return categories, nil
}

func (repository *PostgresRepository) GetSkillByID(context context.Context, id int) (*Skill, error) {
	query := `
		SELECT s.id, s.categoryid, s.name, s.slug, s.description,
		       c.id, c.name, c.slug, c.sortorder
		FROM core.skill s
		JOIN core.skillcategory c ON s.categoryid = c.id
		WHERE s.id = $1
	`
	s := &Skill{}
	c := &Category{}

	err := repository.db.QueryRow(context, query, id).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.Description,
		&c.ID, &c.Name, &c.Slug, &c.SortOrder,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_skill_by_id")
	}

	s.Category = c
	return s, nil
}

func (repository *PostgresRepository) GetSkillBySlug(context context.Context, slug string) (*Skill, error) {
	query := `
		SELECT s.id, s.categoryid, s.name, s.slug, s.description,
		       c.id, c.name, c.slug, c.sortorder
		FROM core.skill s
		JOIN core.skillcategory c ON s.categoryid = c.id
		WHERE s.slug = $1
	`
	s := &Skill{}
	c := &Category{}

	err := repository.db.QueryRow(context, query, slug).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.Description,
		&c.ID, &c.Name, &c.Slug, &c.SortOrder,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "get_skill_by_slug")
	}

	s.Category = c
	return s, nil
}
