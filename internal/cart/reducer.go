package cart

import "github.com/example/storefront/internal/model"

// ActionType names a cart transition
type ActionType string

const (
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClearCart      ActionType = "CLEAR_CART"
	ActionLoadCart       ActionType = "LOAD_CART"
)

// LineItem is one (product, size) entry in the cart. The product is a
// snapshot taken when the line was added; its price is what the cart charges.
type LineItem struct {
	Product      model.Product `json:"product"`
	Quantity     int           `json:"quantity"`
	SelectedSize string        `json:"selectedSize"`
}

func (l LineItem) matches(productID, size string) bool {
	return l.Product.ID == productID && l.SelectedSize == size
}

// Action is a cart transition. Which fields are read depends on Type.
type Action struct {
	Type         ActionType
	Product      model.Product // ADD_ITEM
	ProductID    string        // REMOVE_ITEM, UPDATE_QUANTITY
	SelectedSize string
	Quantity     int
	Items        []LineItem // LOAD_CART
}

func AddItem(product model.Product, quantity int, size string) Action {
	return Action{Type: ActionAddItem, Product: product, Quantity: quantity, SelectedSize: size}
}

func RemoveItem(productID, size string) Action {
	return Action{Type: ActionRemoveItem, ProductID: productID, SelectedSize: size}
}

func UpdateQuantity(productID, size string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ProductID: productID, SelectedSize: size, Quantity: quantity}
}

func ClearCart() Action {
	return Action{Type: ActionClearCart}
}

func LoadCart(items []LineItem) Action {
	return Action{Type: ActionLoadCart, Items: items}
}

// Reduce returns the line items that result from applying action to items.
// The input slice is never modified. Every returned line has a positive
// quantity and no two lines share a (product id, size) key.
func Reduce(items []LineItem, action Action) []LineItem {
	switch action.Type {
	case ActionAddItem:
		if action.Quantity <= 0 {
			return clone(items)
		}
		next := clone(items)
		for i := range next {
			if next[i].matches(action.Product.ID, action.SelectedSize) {
				next[i].Quantity += action.Quantity
				return next
			}
		}
		return append(next, LineItem{
			Product:      action.Product,
			Quantity:     action.Quantity,
			SelectedSize: action.SelectedSize,
		})

	case ActionRemoveItem:
		next := make([]LineItem, 0, len(items))
		for _, item := range items {
			if !item.matches(action.ProductID, action.SelectedSize) {
				next = append(next, item)
			}
		}
		return next

	case ActionUpdateQuantity:
		quantity := max(0, action.Quantity)
		next := make([]LineItem, 0, len(items))
		for _, item := range items {
			if item.matches(action.ProductID, action.SelectedSize) {
				item.Quantity = quantity
			}
			if item.Quantity > 0 {
				next = append(next, item)
			}
		}
		return next

	case ActionClearCart:
		return []LineItem{}

	case ActionLoadCart:
		// Lines sharing a key are merged at the first one's position.
		next := make([]LineItem, 0, len(action.Items))
		for _, item := range action.Items {
			if item.Quantity > 0 {
				next = Reduce(next, AddItem(item.Product, item.Quantity, item.SelectedSize))
			}
		}
		return next
	}
	return clone(items)
}

func clone(items []LineItem) []LineItem {
	next := make([]LineItem, len(items), len(items)+1)
	copy(next, items)
	return next
}
