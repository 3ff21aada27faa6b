package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

//go:embed specializations.yaml
var defaultTable []byte

// Specialization запись статического каталога специализаций.
type Specialization struct {
	ID            string                  `yaml:"id" json:"id"`
	Category      valueobject.TagCategory `yaml:"category" json:"category"`
	Name          string                  `yaml:"name" json:"name"`
	Description   string                  `yaml:"description" json:"description"`
	BaseThreshold int                     `yaml:"base_threshold" json:"baseThreshold"`
}

type table struct {
	Specializations []Specialization `yaml:"specializations"`
}

// Catalog неизменяемый каталог. Все методы безопасны для параллельного вызова.
type Catalog struct {
	items []Specialization
	byID  map[string]Specialization
}

// Default разбирает встроенную таблицу специализаций.
func Default() (*Catalog, error) {
	return Parse(defaultTable)
}

// MustDefault как Default, но паникует при ошибке встроенной таблицы.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse читает YAML таблицу и проверяет её целостность.
func Parse(raw []byte) (*Catalog, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("catalog: не удалось разобрать таблицу: %w", err)
	}
	return New(t.Specializations)
}

// New строит каталог из списка специализаций.
func New(items []Specialization) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: таблица специализаций пуста")
	}

	c := &Catalog{
		items: make([]Specialization, 0, len(items)),
		byID:  make(map[string]Specialization, len(items)),
	}
	for _, s := range items {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog: специализация без id")
		}
		if !s.Category.IsValid() {
			return nil, fmt.Errorf("catalog: %s: неизвестная категория %q", s.ID, s.Category)
		}
		if s.BaseThreshold <= 0 {
			return nil, fmt.Errorf("catalog: %s: base_threshold должен быть положительным", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("catalog: повторяющийся id %s", s.ID)
		}
		c.byID[s.ID] = s
		c.items = append(c.items, s)
	}

	sort.SliceStable(c.items, func(i, j int) bool {
		return categoryRank(c.items[i].Category) < categoryRank(c.items[j].Category)
	})

	return c, nil
}

// All возвращает копию всех специализаций.
func (c *Catalog) All() []Specialization {
	out := make([]Specialization, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(id string) (Specialization, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ByCategory возвращает специализации одной категории в порядке таблицы.
func (c *Catalog) ByCategory(category valueobject.TagCategory) []Specialization {
	var out []Specialization
	for _, s := range c.items {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Find ищет специализацию по паре категория+id.
func (c *Catalog) Find(category valueobject.TagCategory, id string) (Specialization, error) {
	s, ok := c.byID[id]
	if !ok || s.Category != category {
		return Specialization{}, apperror.ErrSpecializationNotFound
	}
	return s, nil
}

func categoryRank(category valueobject.TagCategory) int {
	for i, c := range valueobject.AllCategories() {
		if c == category {
			return i
		}
	}
	return len(valueobject.AllCategories())
}
