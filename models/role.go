package models

import (
	"strings"
	"time"
)

// Role is one entry of the profession catalog. Seeded at migrate time; the
// skills column holds the default skill set the career analysis starts from.
type Role struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:64;uniqueIndex;not null"` // catalog key, e.g. "economist"
	Title     string `gorm:"size:128;not null"`
	Skills    string `gorm:"size:1024"` // comma-separated
}

// SkillList splits the stored skills column into individual skills.
func (r Role) SkillList() []string {
	if r.Skills == "" {
		return nil
	}
	parts := strings.Split(r.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
