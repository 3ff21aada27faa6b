package valueobject

import "github.com/caelus-market/caelus-backend/internal/pkg/apperror"

// TagCategory одна из трёх фиксированных категорий специализаций.
type TagCategory string

const (
	CategoryFabricSpecialty TagCategory = "fabric_specialty"
	CategoryClothingType    TagCategory = "clothing_type"
	CategoryStyle           TagCategory = "style"
)

func (c TagCategory) IsValid() bool {
	switch c {
	case CategoryFabricSpecialty, CategoryClothingType, CategoryStyle:
		return true
	}
	return false
}

// AllCategories возвращает категории в порядке отображения.
func AllCategories() []TagCategory {
	return []TagCategory{CategoryFabricSpecialty, CategoryClothingType, CategoryStyle}
}

func NewTagCategory(category string) (TagCategory, error) {
	c := TagCategory(category)
	if !c.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная категория тега")
	}
	return c, nil
}
