package offers

import "errors"

var (
	ErrMissingFields        = errors.New("Missing required fields")
	ErrInvalidAmount        = errors.New("Amount must be a positive number")
	ErrOfferNotFound        = errors.New("Offer not found or expired")
	ErrInsufficientQuantity = errors.New("Insufficient energy amount available")
)
