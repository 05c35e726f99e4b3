package http

import (
	"time"

	"github.com/shopspring/decimal"

	"shop-service/internal/domain/entities"
	"shop-service/internal/usecase"
)

type addressReq struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func (a addressReq) toEntity() entities.DeliveryAddress {
	return entities.DeliveryAddress{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

type createOrderReq struct {
	DeliveryAddress addressReq `json:"deliveryAddress"`
}

type cancelOrderReq struct {
	CancelReason      string `json:"cancelReason"`
	CancelDescription string `json:"cancelDescription"`
}

type sellerStatusReq struct {
	Status string `json:"status"`
}

type addToCartReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartReq struct {
	Quantity int `json:"quantity"`
}

type wishlistReq struct {
	ProductID string `json:"productId"`
}

type productReq struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Image       string          `json:"image"`
	InStock     *bool           `json:"inStock"`
}

func (p productReq) toInput() usecase.ProductInput {
	inStock := true
	if p.InStock != nil {
		inStock = *p.InStock
	}
	return usecase.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    entities.Category(p.Category),
		Subcategory: entities.Subcategory(p.Subcategory),
		ImageURL:    p.Image,
		InStock:     inStock,
	}
}

// orderLineResp.Product is the catalog product when it still exists and the
// bare product id otherwise.
type orderLineResp struct {
	Product  any             `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type orderResp struct {
	ID                string                   `json:"_id"`
	User              string                   `json:"user"`
	Products          []orderLineResp          `json:"products"`
	DeliveryAddress   entities.DeliveryAddress `json:"deliveryAddress"`
	TotalAmount       decimal.Decimal          `json:"totalAmount"`
	Status            entities.OrderStatus     `json:"status"`
	ProgressStatus    int                      `json:"progressStatus"`
	CancelReason      entities.CancelReason    `json:"cancelReason,omitempty"`
	CancelDescription string                   `json:"cancelDescription,omitempty"`
	OrderDate         time.Time                `json:"orderDate"`
	UpdatedAt         time.Time                `json:"updatedAt"`
}

func toOrderResp(order *entities.Order, products map[string]*entities.Product) orderResp {
	lines := make([]orderLineResp, len(order.Lines))
	for i, line := range order.Lines {
		var product any = line.ProductID
		if p, ok := products[line.ProductID]; ok {
			product = p
		}
		lines[i] = orderLineResp{Product: product, Quantity: line.Quantity, Price: line.Price}
	}

	return orderResp{
		ID:                order.ID,
		User:              order.UserID,
		Products:          lines,
		DeliveryAddress:   order.DeliveryAddress,
		TotalAmount:       order.TotalAmount,
		Status:            order.Status,
		ProgressStatus:    order.ProgressStatus,
		CancelReason:      order.CancelReason,
		CancelDescription: order.CancelDescription,
		OrderDate:         order.OrderDate,
		UpdatedAt:         order.UpdatedAt,
	}
}

type cartItemResp struct {
	Product  *entities.Product `json:"product"`
	Quantity int               `json:"quantity"`
}

type cartResp struct {
	User      string          `json:"user"`
	Items     []cartItemResp  `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toCartResp(view *usecase.CartView) cartResp {
	items := make([]cartItemResp, len(view.Items))
	for i, item := range view.Items {
		items[i] = cartItemResp{Product: item.Product, Quantity: item.Quantity}
	}
	return cartResp{User: view.UserID, Items: items, Subtotal: view.Subtotal, UpdatedAt: view.UpdatedAt}
}
