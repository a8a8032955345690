package domain

import "errors"

// Виды ошибок планировщика. Ошибки пакетов оборачивают один из них,
// чтобы транспортный слой мог выбрать код ответа через errors.Is.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)
