package domain

import "time"

// Extra: дополнительная позиция (лёд, газировка), которую можно включить в пак.
type Extra struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

func NewExtra(name string) *Extra {
	return &Extra{Name: name}
}

// PackItem: строка состава пака.
type PackItem struct {
	ExtraID   int64
	ExtraName string
	Quantity  int
}
