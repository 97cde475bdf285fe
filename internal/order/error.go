package order

import (
	"fmt"

	"threadstory-be/internal/apperror"
)

var (
	ErrOrderNotFound   = apperror.NotFound("Order not found")
	ErrInvalidID       = apperror.InvalidArgument("Invalid order ID format")
	ErrNoOrderItems    = apperror.BadRequest("No order items")
	ErrUnauthenticated = apperror.Unauthorized("Not authorized, no token")
	ErrInvalidStatus   = apperror.Validation("Validation failed", []string{
		"status must be one of Pending, Processing, Shipped, Delivered, Cancelled",
	})
)

func insufficientStock(name string, available int) error {
	return apperror.BadRequest(fmt.Sprintf("Insufficient stock for %s. Only %d available.", name, available))
}

func invalidQuantity(index int) error {
	return apperror.Validation("Validation failed", []string{
		fmt.Sprintf("orderItems[%d].quantity must be at least 1", index),
	})
}
