package approve_request

import "errors"

// Виды событий целостности для метрик
const (
	IntegrityPartialApproval   = "partial_approval"
	IntegrityInvalidTransition = "invalid_transition"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("approve_request: invalid input data")

	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("approve_request: request not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден в компании
	ErrProfessionalNotFound = errors.New("approve_request: professional not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_request: internal error")
)
