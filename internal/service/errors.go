package service

import "errors"

var (
	ErrInvalidBrandPrefix  = errors.New("brand prefix unregistered or malformed")
	ErrBrandInactive       = errors.New("brand is deactivated")
	ErrBrandPrefixTaken    = errors.New("brand prefix already registered")
	ErrInvalidBatchSize    = errors.New("batch quantity out of range")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")
	ErrStorageUnavailable  = errors.New("storage unavailable, retry later")
)
