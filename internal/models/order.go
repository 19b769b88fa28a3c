package models

import "time"

type Order struct {
	ID        int64     `json:"id"`
	ItemName  string    `json:"itemName"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notification struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateOrderRequest struct {
	ItemName string `json:"itemName"`
}
