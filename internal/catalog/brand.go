package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/DRSN-tech/storefront/internal/domain"
)

const maxBrandWords = 3

// genericTokens: общие слова в начале названия, которые не являются маркой.
var genericTokens = map[string]struct{}{
	"ron":         {},
	"pack":        {},
	"botella":     {},
	"botellas":    {},
	"cerveza":     {},
	"cervezas":    {},
	"lata":        {},
	"latas":       {},
	"six":         {},
	"combo":       {},
	"promo":       {},
	"whisky":      {},
	"vodka":       {},
	"vino":        {},
	"tequila":     {},
	"gin":         {},
	"aguardiente": {},
	"de":          {},
	"x":           {},
}

// BrandLabel выделяет марку из названия товара: пропускает общие начальные слова
// и берёт до трёх следующих слов, останавливаясь на первом слове с цифрой.
// Результат всегда является подстрокой исходного названия с точностью до пробелов,
// поэтому годится и для отображения, и для фильтра Brands.
func BrandLabel(name string) string {
	words := strings.Fields(name)

	i := 0
	for i < len(words) {
		if _, ok := genericTokens[Normalize(words[i])]; !ok {
			break
		}
		i++
	}

	label := make([]string, 0, maxBrandWords)
	for ; i < len(words) && len(label) < maxBrandWords; i++ {
		if strings.IndexFunc(words[i], unicode.IsDigit) >= 0 {
			break
		}
		label = append(label, words[i])
	}

	return strings.Join(label, " ")
}

// Brands возвращает отсортированный список уникальных марок по набору товаров.
// Марки, совпадающие после нормализации, схлопываются в первую встреченную.
func Brands(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	result := make([]string, 0)

	for i := range products {
		label := BrandLabel(products[i].Name)
		if label == "" {
			continue
		}

		key := Normalize(label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, label)
	}

	sort.Slice(result, func(i, j int) bool {
		return Normalize(result[i]) < Normalize(result[j])
	})

	return result
}
