package models

// Skill is a named tag attached to hiring posts.
type Skill struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

// Category is a named tag usable by either post variant, gated per kind.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	IsHiring bool   `gorm:"column:is_hiring_category;default:false" json:"is_hiring_category"`
	IsRental bool   `gorm:"column:is_rental_category;default:false" json:"is_rental_category"`
}

// AllowsKind reports whether the category may be attached to posts of kind k.
func (c Category) AllowsKind(k PostKind) bool {
	switch k {
	case KindHiring:
		return c.IsHiring
	case KindRental:
		return c.IsRental
	}
	return false
}
