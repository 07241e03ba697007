package requests

import "errors"

// IntegrityInvalidTransition метка события для IntegrityMetrics
const IntegrityInvalidTransition = "invalid_transition"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("appointment request not found")

	// ErrProfessionalNotFound возвращается, когда специалист не относится к компании
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
