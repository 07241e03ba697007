package update_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена или уже отменена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден в компании
	ErrProfessionalNotFound = errors.New("update_appointment: professional not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
