package domain

import "github.com/shopspring/decimal"

// CartLine: строка корзины. На один товар приходится не более одной строки.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal возвращает стоимость строки.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart: упорядоченный список строк корзины.
type Cart struct {
	ID    string
	Lines []CartLine
}

func NewCart(id string) *Cart {
	return &Cart{ID: id, Lines: make([]CartLine, 0)}
}

// Add увеличивает количество существующей строки или добавляет новую с количеством 1.
// Цена фиксируется по DisplayPrice на момент первого добавления.
func (c *Cart) Add(p *Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.DisplayPrice(),
		Quantity:  1,
	})
}

// SetQuantityDelta меняет количество на delta; строка удаляется, если количество стало <= 0.
// Возвращает false, если строки для товара нет.
func (c *Cart) SetQuantityDelta(productID int64, delta int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}

	c.Lines[i].Quantity += delta
	if c.Lines[i].Quantity <= 0 {
		c.removeAt(i)
	}

	return true
}

// Remove удаляет строку товара. Возвращает false, если строки не было.
func (c *Cart) Remove(productID int64) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}

	c.removeAt(i)
	return true
}

// Total: сумма UnitPrice*Quantity по всем строкам.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}

	return total
}

// Count: суммарное количество единиц (для бейджа корзины).
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}

	return n
}

func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) indexOf(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}

	return -1
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
