package repository

import "errors"

var (
	ErrCodeNotFound  = errors.New("product code not found")
	ErrBrandNotFound = errors.New("brand not found")
)
