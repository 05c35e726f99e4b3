package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusSuccess    OrderStatus = "success"
	StatusCancelled  OrderStatus = "cancelled"
)

var progressByStatus = map[OrderStatus]int{
	StatusPending:    25,
	StatusProcessing: 50,
	StatusShipped:    75,
	StatusDelivered:  100,
	StatusSuccess:    100,
	StatusCancelled:  0,
}

// Progress returns the progress bar value for a status. The second result is
// false for strings that are not order statuses.
func Progress(status OrderStatus) (int, bool) {
	p, ok := progressByStatus[status]
	return p, ok
}

// SellerSettable reports whether a seller may move an order into status.
func SellerSettable(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusSuccess:
		return true
	}
	return false
}

// CancellableStatuses are the only states a buyer can cancel from.
var CancellableStatuses = []OrderStatus{StatusPending, StatusProcessing}

type CancelReason string

const (
	ReasonChangedMind         CancelReason = "changed_mind"
	ReasonWrongItem           CancelReason = "wrong_item"
	ReasonDeliveryTimeTooLong CancelReason = "delivery_time_too_long"
	ReasonFoundBetterPrice    CancelReason = "found_better_price"
	ReasonOther               CancelReason = "other"
)

func ValidCancelReason(reason CancelReason) bool {
	switch reason {
	case ReasonChangedMind, ReasonWrongItem, ReasonDeliveryTimeTooLong, ReasonFoundBetterPrice, ReasonOther:
		return true
	}
	return false
}

type Order struct {
	ID                string          `json:"_id"`
	UserID            string          `json:"user"`
	Lines             []OrderLine     `json:"products"`
	DeliveryAddress   DeliveryAddress `json:"deliveryAddress"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	ProgressStatus    int             `json:"progressStatus"`
	CancelReason      CancelReason    `json:"cancelReason,omitempty"`
	CancelDescription string          `json:"cancelDescription,omitempty"`
	IdempotencyKey    string          `json:"-"`
	OrderDate         time.Time       `json:"orderDate"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderLine is frozen at creation: price and seller are copied from the
// catalog, not referenced.
type OrderLine struct {
	ProductID string          `json:"product"`
	SellerID  string          `json:"seller,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// MissingFields lists the json names of blank address fields.
func (a DeliveryAddress) MissingFields() []string {
	var missing []string
	fields := []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// NewOrder builds a pending order from already priced lines.
func NewOrder(id, userID string, lines []OrderLine, address DeliveryAddress, now time.Time) *Order {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	progress, _ := Progress(StatusPending)

	return &Order{
		ID:              id,
		UserID:          userID,
		Lines:           lines,
		DeliveryAddress: address,
		TotalAmount:     total,
		Status:          StatusPending,
		ProgressStatus:  progress,
		OrderDate:       now,
		UpdatedAt:       now,
	}
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (o *Order) AttributedTo(sellerID string) bool {
	for _, line := range o.Lines {
		if line.SellerID == sellerID {
			return true
		}
	}
	return false
}

func (o *Order) Cancellable() bool {
	for _, s := range CancellableStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
