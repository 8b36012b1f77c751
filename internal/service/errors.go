package service

import "errors"

var (
	ErrEmptyCart     = errors.New("cart is empty, nothing to checkout")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
