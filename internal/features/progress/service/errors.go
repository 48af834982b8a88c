package service

import "errors"

// Transition errors. A rejected transition leaves the profile untouched.
var (
	ErrInvalidLevel      = errors.New("level is not part of the level order")
	ErrInvalidScore      = errors.New("score is out of range")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrUnknownCategory   = errors.New("unknown cosmetic category")
	ErrInvalidItem       = errors.New("item id is empty")
	ErrInvalidCost       = errors.New("cost must not be negative")
)
