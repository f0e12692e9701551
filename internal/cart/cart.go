package cart

// Line is one cart entry. Name and price are snapshots taken when the product
// was added; later catalog edits do not change them.
type Line struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Cart maps product id -> line. It is a plain value passed through handlers
// and persisted only as a signed cookie token between requests.
type Cart map[uint]Line

func New() Cart {
	return Cart{}
}

// Add overwrites any existing line for the product. Quantities do not
// accumulate across adds.
func (c Cart) Add(productID uint, name string, price float64, qty int) {
	if qty <= 0 {
		return
	}
	c[productID] = Line{Name: name, Price: price, Qty: qty}
}

// Update replaces the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown product ids are ignored.
func (c Cart) Update(productID uint, qty int) {
	line, ok := c[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(c, productID)
		return
	}
	line.Qty = qty
	c[productID] = line
}

// Remove deletes a line. Removing an absent line is a no-op.
func (c Cart) Remove(productID uint) {
	delete(c, productID)
}

// Total is the sum of price * qty over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.Price * float64(line.Qty)
	}
	return total
}

func (c Cart) Empty() bool {
	return len(c) == 0
}
