package domain

import "time"

const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// FulfilledOrderStatuses are the statuses that count as a purchase signal.
var FulfilledOrderStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

type Order struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"column:user_id;index" json:"user_id"`
	Status    string      `gorm:"column:status;type:text" json:"status"`
	CreatedAt time.Time   `gorm:"column:created_at" json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem.Variant is the free-text variant descriptor captured at checkout,
// either a JSON object ({"size":"75B","color":"Đen"}) or "Size: 75B, Màu: Đen".
type OrderItem struct {
	ID        uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint64   `gorm:"column:order_id;index" json:"order_id"`
	ProductID uint64   `gorm:"column:product_id;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int      `gorm:"column:quantity" json:"quantity"`
	Price     float64  `gorm:"column:price;type:numeric" json:"price"`
	Variant   *string  `gorm:"column:variant;type:text" json:"variant"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
