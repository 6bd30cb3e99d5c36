package catalog

// PageWindow возвращает номера страниц для навигации: не более width номеров,
// текущая страница по возможности в центре.
func PageWindow(current, totalPages, width int) []int {
	if totalPages <= 0 || width <= 0 {
		return []int{}
	}

	current = max(1, min(current, totalPages))
	width = min(width, totalPages)

	start := current - width/2
	start = max(1, min(start, totalPages-width+1))

	pages := make([]int, width)
	for i := range pages {
		pages[i] = start + i
	}

	return pages
}
