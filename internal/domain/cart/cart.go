package cart

import "errors"

var (
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrSizeRequired    = errors.New("size is required")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Items is the persisted cart shape: productID -> size -> quantity.
// A (product, size) pair with quantity <= 0 is never stored; absence means
// "not in cart".
type Items = map[string]map[string]int

// Add increments the quantity for (productID, size), inserting the pair with
// quantity 1 if it is not present.
func Add(items Items, productID, size string) (Items, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if size == "" {
		return nil, ErrSizeRequired
	}

	items = clone(items)
	if sizes, ok := items[productID]; ok {
		sizes[size]++
	} else {
		items[productID] = map[string]int{size: 1}
	}
	return items, nil
}

// SetQuantity overwrites the quantity for (productID, size). A quantity of
// zero removes the product entry.
func SetQuantity(items Items, productID, size string, quantity int) (Items, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if size == "" {
		return nil, ErrSizeRequired
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	items = clone(items)
	if quantity == 0 {
		removeOnZero(items, productID)
		return items, nil
	}

	if sizes, ok := items[productID]; ok {
		sizes[size] = quantity
	} else {
		items[productID] = map[string]int{size: quantity}
	}
	return items, nil
}

// removeOnZero drops the whole product entry, every size included, when a
// quantity of zero is written. A single policy point so the size-scoped
// variant can replace it without touching callers.
func removeOnZero(items Items, productID string) {
	delete(items, productID)
}

// TotalQuantity sums quantities across all products and sizes.
func TotalQuantity(items Items) int {
	var total int
	for _, sizes := range items {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

func clone(items Items) Items {
	out := make(Items, len(items))
	for productID, sizes := range items {
		cp := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			cp[size] = qty
		}
		out[productID] = cp
	}
	return out
}
