package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// Visibility задаёт фильтр по флагу активности.
type Visibility int

const (
	VisibilityActive Visibility = iota
	VisibilityInactive
	VisibilityAll
)

// ParseVisibility разбирает значение filterBy; пустая строка означает active.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return VisibilityActive, nil
	case "inactive":
		return VisibilityInactive, nil
	case "all":
		return VisibilityAll, nil
	default:
		return VisibilityActive, fmt.Errorf("%w: unknown filter %q", e.ErrValidation, s)
	}
}

func (v Visibility) String() string {
	switch v {
	case VisibilityInactive:
		return "inactive"
	case VisibilityAll:
		return "all"
	default:
		return "active"
	}
}

// Order задаёт режим сортировки.
type Order int

const (
	// OrderBrowse: сначала паки, затем по названию (витрина).
	OrderBrowse Order = iota
	// OrderRecency: по убыванию ID (списки админки).
	OrderRecency
)

// CategorySet описывает фасет категорий. Пустой набор без Packs не ограничивает выборку.
type CategorySet struct {
	IDs   []int64
	Packs bool // выбрана виртуальная категория «паки»
}

// ParseCategorySet разбирает идентификаторы категорий, включая зарезервированный "packs".
func ParseCategorySet(values []string) (CategorySet, error) {
	var set CategorySet
	seen := make(map[int64]struct{}, len(values))

	for _, raw := range values {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}

			if strings.EqualFold(v, domain.PacksCategoryKey) {
				set.Packs = true
				continue
			}

			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return CategorySet{}, fmt.Errorf("%w: category %q", e.ErrInvalidID, v)
			}

			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			set.IDs = append(set.IDs, id)
		}
	}

	return set, nil
}

// IsEmpty сообщает, что фасет категорий не задан.
func (c CategorySet) IsEmpty() bool {
	return len(c.IDs) == 0 && !c.Packs
}

// Request описывает декларативный запрос к каталогу.
type Request struct {
	SearchTerm        string
	FilterBy          Visibility
	Categories        CategorySet
	PriceMin          decimal.Decimal
	PriceMax          *decimal.Decimal // nil: без верхней границы
	Brands            []string
	OnlyPacks         bool
	Page              int
	PageSize          int
	Order             Order
	MatchCategoryName bool // в админке поиск идёт и по названию категории
}

// Result содержит страницу товаров и размер полностью отфильтрованной выборки.
type Result struct {
	Items      []domain.Product
	TotalCount int
	Page       int
	PageSize   int
}

// TotalPages возвращает число страниц для TotalCount.
func (r *Result) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}

	return (r.TotalCount + r.PageSize - 1) / r.PageSize
}

// CandidateFilter содержит фасеты, которые хранилище умеет выразить само.
// Виртуальная категория «паки» сюда не попадает: её заменяют OnlyPacks и OrPacks.
type CandidateFilter struct {
	Visibility  Visibility
	OnlyPacks   bool
	CategoryIDs []int64
	OrPacks     bool // товар подходит, если он в CategoryIDs ИЛИ является паком
	PriceMin    decimal.Decimal
	PriceMax    *decimal.Decimal
}

// CandidateFilter переводит запрос в фильтр для хранилища.
func (r *Request) CandidateFilter() CandidateFilter {
	f := CandidateFilter{
		Visibility: r.FilterBy,
		OnlyPacks:  r.OnlyPacks,
		PriceMin:   r.PriceMin,
		PriceMax:   r.PriceMax,
	}

	switch {
	case r.Categories.Packs && len(r.Categories.IDs) == 0:
		f.OnlyPacks = true
	case r.Categories.Packs:
		f.CategoryIDs = r.Categories.IDs
		f.OrPacks = true
	default:
		f.CategoryIDs = r.Categories.IDs
	}

	return f
}

// Key возвращает стабильное строковое представление фильтра (ключ кэша).
func (f CandidateFilter) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "v=%s;p=%t;or=%t;min=%s;max=", f.Visibility, f.OnlyPacks, f.OrPacks, f.PriceMin.String())
	if f.PriceMax != nil {
		b.WriteString(f.PriceMax.String())
	}
	b.WriteString(";c=")
	ids := slices.Clone(f.CategoryIDs)
	slices.Sort(ids)
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}

	return b.String()
}

// Matches проверяет товар по фасетам, выразимым в хранилище.
func (f CandidateFilter) Matches(p *domain.Product) bool {
	switch f.Visibility {
	case VisibilityActive:
		if !p.IsActive {
			return false
		}
	case VisibilityInactive:
		if p.IsActive {
			return false
		}
	}

	if f.OnlyPacks && !p.IsPack {
		return false
	}

	if p.Price.LessThan(f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}

	if len(f.CategoryIDs) > 0 && !inCategories(p, f.CategoryIDs) {
		return f.OrPacks && p.IsPack
	}

	return true
}

func inCategories(p *domain.Product, ids []int64) bool {
	if p.CategoryID == nil {
		return false
	}

	for _, id := range ids {
		if *p.CategoryID == id {
			return true
		}
	}

	return false
}
