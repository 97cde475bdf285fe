package order

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

const (
	EventCreated = "order.created"
	EventPaid    = "order.paid"
	EventUpdated = "order.updated"
)

// ProductRef is the product reference carried by an order line. Clients may
// send a string id, a number (sample products) or nothing at all, so it is
// decoded leniently and never validated against the catalog on read.
type ProductRef string

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ProductRef(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = ProductRef(n.String())
	return nil
}

type Item struct {
	Product  ProductRef `json:"product"`
	Name     string     `json:"name"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Image    string     `json:"image"`
	Size     string     `json:"size,omitempty"`
	Color    string     `json:"color,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type PaymentResult struct {
	ID                string `json:"id,omitempty"`
	Status            string `json:"status,omitempty"`
	UpdateTime        string `json:"updateTime,omitempty"`
	EmailAddress      string `json:"emailAddress,omitempty"`
	RazorpayPaymentID string `json:"razorpayPaymentId,omitempty"`
	RazorpayOrderID   string `json:"razorpayOrderId,omitempty"`
	RazorpaySignature string `json:"razorpaySignature,omitempty"`
}

// Owner is the placing user as shown on an order.
type Owner struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Order struct {
	ID              string          `json:"_id"`
	User            Owner           `json:"user"`
	Items           []Item          `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	OrderItems      []Item          `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

type Payer struct {
	EmailAddress string `json:"email_address"`
}

// PayInput is the body of a payment confirmation. The generic fields come
// from any provider; the razorpay_* fields come from Razorpay checkout.
type PayInput struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	UpdateTime        string `json:"update_time"`
	Payer             *Payer `json:"payer"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type GatewayOrderInput struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type StatusInput struct {
	Status string `json:"status"`
}
