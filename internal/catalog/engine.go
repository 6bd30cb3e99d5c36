package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Source отдаёт полный набор кандидатов по фасетам, выразимым в хранилище.
type Source interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]domain.Product, error)
}

// Engine выполняет запросы к каталогу: фильтрация всей выборки, сортировка, пагинация.
// Engine не хранит состояния между вызовами.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Query выполняет запрос. Выполняется ровно одно чтение из Source; при его ошибке
// возвращается ErrDataUnavailable без частичного результата.
func (en *Engine) Query(ctx context.Context, req Request) (*Result, error) {
	const op = "catalog.Engine.Query"

	if req.PageSize <= 0 {
		return nil, e.Wrap(op, e.ErrPageSize)
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	candidates, err := en.src.ListCandidates(ctx, req.CandidateFilter())
	if err != nil {
		return nil, e.Unavailable(op, err)
	}

	return Apply(candidates, req), nil
}

// Apply применяет запрос к уже полученному набору кандидатов.
// Входной срез не изменяется.
func Apply(candidates []domain.Product, req Request) *Result {
	if req.Page <= 0 {
		req.Page = 1
	}

	filtered := Filter(candidates, req)
	Sort(filtered, req.Order)

	return &Result{
		Items:      Paginate(filtered, req.Page, req.PageSize),
		TotalCount: len(filtered),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
}

// Filter возвращает новый срез кандидатов, прошедших все фасеты запроса.
func Filter(candidates []domain.Product, req Request) []domain.Product {
	cf := req.CandidateFilter()
	term := newTermMatcher(req.SearchTerm, req.MatchCategoryName)

	out := make([]domain.Product, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		if !cf.Matches(p) || !term.match(p) || !matchesBrands(p, req.Brands) {
			continue
		}
		out = append(out, *p)
	}

	return out
}

// Sort упорядочивает товары на месте, сохраняя порядок равных элементов.
func Sort(products []domain.Product, order Order) {
	switch order {
	case OrderRecency:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID > products[j].ID
		})
	default:
		col := collate.New(language.Spanish, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			a, b := &products[i], &products[j]
			if a.IsPack != b.IsPack {
				return a.IsPack
			}
			return col.CompareString(a.Name, b.Name) < 0
		})
	}
}

// Paginate возвращает срез [(page-1)*size, page*size). Страница за пределами выборки пуста.
func Paginate(products []domain.Product, page, pageSize int) []domain.Product {
	if pageSize <= 0 {
		return []domain.Product{}
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(products) {
		return []domain.Product{}
	}

	end := min(start+pageSize, len(products))
	return products[start:end]
}

type termMatcher struct {
	norm          string
	id            int64
	byID          bool
	matchCategory bool
}

func newTermMatcher(term string, matchCategory bool) termMatcher {
	term = strings.TrimSpace(term)
	m := termMatcher{norm: Normalize(term), matchCategory: matchCategory}

	if isShortNumeric(term) {
		id, err := strconv.ParseInt(term, 10, 64)
		if err == nil {
			m.id, m.byID = id, true
		}
	}

	return m
}

func (m termMatcher) match(p *domain.Product) bool {
	if m.norm == "" {
		return true
	}

	if m.byID && p.ID == m.id {
		return true
	}

	if strings.Contains(Normalize(p.Name), m.norm) {
		return true
	}

	return m.matchCategory && strings.Contains(Normalize(p.CategoryName), m.norm)
}

// matchesBrands: OR по вхождению фрагментов в исходное (ненормализованное) название.
func matchesBrands(p *domain.Product, brands []string) bool {
	if len(brands) == 0 {
		return true
	}

	for _, b := range brands {
		if b != "" && strings.Contains(p.Name, b) {
			return true
		}
	}

	return false
}
