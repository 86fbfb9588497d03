package application

import "errors"

var (
	ErrInvalidAPIKey      = errors.New("invalid api key")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
