package service

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidArgument  = errors.New("invalid argument")
)
