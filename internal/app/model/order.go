package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type OrderStatus string // 주문 상태 코드
type PaymentMode string // 결제 수단

const (
	OrderStatusPending   OrderStatus = "pending"   // 주문 접수
	OrderStatusConfirmed OrderStatus = "confirmed" // 주문 확정
	OrderStatusShipped   OrderStatus = "shipped"   // 배송 중
	OrderStatusDelivered OrderStatus = "delivered" // 배송 완료
	OrderStatusCancelled OrderStatus = "cancelled" // 주문 취소

	PaymentModeCOD  PaymentMode = "cod"  // 착불
	PaymentModeCard PaymentMode = "card" // 카드
	PaymentModeUPI  PaymentMode = "upi"  // 계좌 이체
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCOD, PaymentModeCard, PaymentModeUPI:
		return true
	}
	return false
}

// OrderSnapshotItem is one entry of the denormalized item list stored on the
// order row itself. It keeps the order readable after products or order
// lines are removed.
type OrderSnapshotItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderSnapshot is persisted as a JSON text column.
type OrderSnapshot []OrderSnapshotItem

func (s OrderSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *OrderSnapshot) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = OrderSnapshot{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported order snapshot type %T", value)
	}
	return json.Unmarshal(data, s)
}

type Order struct {
	ID                   uint          `gorm:"primarykey" json:"id"`                                    // 주문 ID
	UserID               uint          `gorm:"not null;index" json:"user_id"`                           // 주문자 ID
	Items                OrderSnapshot `gorm:"type:text;not null" json:"items"`                         // 주문 당시 상품 스냅샷
	TotalAmount          float64       `gorm:"not null" json:"total_amount"`                            // 총 결제 금액
	AddressLine          string        `gorm:"type:text" json:"address_line"`                           // 배송지 주소 (복사본)
	Phone                string        `gorm:"size:30" json:"phone"`                                    // 연락처 (복사본)
	Pincode              string        `gorm:"size:10" json:"pincode"`                                  // 우편번호 (복사본)
	DeliveryInstructions string        `gorm:"type:text" json:"delivery_instructions"`                  // 배송 요청사항 (복사본)
	Latitude             *float64      `json:"latitude,omitempty"`                                      // 위도 (복사본)
	Longitude            *float64      `json:"longitude,omitempty"`                                     // 경도 (복사본)
	PaymentMode          PaymentMode   `gorm:"type:varchar(20);not null" json:"payment_mode"`           // 결제 수단
	Status               OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`        // 주문 상태
	CreatedAt            time.Time     `json:"created_at"`                                              // 생성 시각
	UpdatedAt            time.Time     `json:"updated_at"`                                              // 수정 시각

	OrderLines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_lines,omitempty"` // 주문 항목 목록
}

func (Order) TableName() string {
	return "orders"
}

type OrderLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 주문 항목 ID
	OrderID   uint      `gorm:"not null;index" json:"order_id"`   // 주문 ID
	ProductID uint      `gorm:"not null;index" json:"product_id"` // 상품 ID
	Quantity  int       `gorm:"not null" json:"quantity"`         // 수량
	PriceEach float64   `gorm:"not null" json:"price_each"`       // 주문 당시 단가
	CreatedAt time.Time `json:"created_at"`                       // 생성 시각
}

func (OrderLine) TableName() string {
	return "order_lines"
}
