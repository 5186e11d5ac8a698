package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`                    // 배송지 ID
	UserID               uint           `gorm:"not null;index" json:"user_id"`           // 사용자 ID
	AddressLine          string         `gorm:"type:text;not null" json:"address_line"`  // 주소
	Phone                string         `gorm:"size:30;not null" json:"phone"`           // 전화번호
	Pincode              string         `gorm:"size:10" json:"pincode"`                  // 우편번호
	DeliveryInstructions string         `gorm:"type:text" json:"delivery_instructions"`  // 배송 요청사항
	Latitude             *float64       `json:"latitude,omitempty"`                      // 위도
	Longitude            *float64       `json:"longitude,omitempty"`                     // 경도
	IsDefault            bool           `gorm:"default:false" json:"is_default"`         // 기본 배송지 여부
	CreatedAt            time.Time      `json:"created_at"`                              // 생성 시각
	UpdatedAt            time.Time      `json:"updated_at"`                              // 수정 시각
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                          // 삭제 시각(소프트 삭제)
}

func (Address) TableName() string {
	return "addresses"
}
