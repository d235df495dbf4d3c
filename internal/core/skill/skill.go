package skill

import "time"

// Category provides a logical grouping for skills to prevent flat list overload.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"-"`

	// Skills contains the child skills for this category, populated in hierarchical queries.
	Skills []Skill `json:"skills,omitempty"`
}

// Skill represents a competency a shift can require and a worker can hold.
type Skill struct {
	ID          int       `json:"id"`
	CategoryID  int       `json:"category_id,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"-"`
}
