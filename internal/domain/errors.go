package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchedule некорректная конфигурация расписания компании
	// Вызывающий код превращает её в пустой список слотов
	ErrInvalidSchedule = errors.New("invalid schedule settings")

	// ErrPastDate попытка записи на время в прошлом
	ErrPastDate = errors.New("appointment start is in the past")

	// ErrConflict интервал пересекается с существующей записью специалиста
	ErrConflict = errors.New("appointment interval conflicts with an existing appointment")

	// ErrInvalidTransition недопустимый переход состояния заявки
	ErrInvalidTransition = errors.New("invalid appointment request transition")

	// ErrPartialApproval запись создана, но статус заявки не обновлен
	ErrPartialApproval = errors.New("appointment created but request status was not updated")

	// ErrFetchFailed ошибка получения данных (можно повторить)
	// Должна отличаться от успешного пустого результата
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidDuration длительность записи меньше минуты или слишком большая
	ErrInvalidDuration = errors.New("invalid appointment duration")
)

// PartialApprovalError нарушение целостности: запись AppointmentID существует,
// а заявка RequestID осталась в прежнем статусе. Требует ручной сверки, повторять нельзя
type PartialApprovalError struct {
	RequestID     int64
	AppointmentID int64
	Err           error
}

func (e *PartialApprovalError) Error() string {
	return fmt.Sprintf("%s: request id=%d, appointment id=%d: %v",
		ErrPartialApproval.Error(), e.RequestID, e.AppointmentID, e.Err)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrPartialApproval)
func (e *PartialApprovalError) Is(target error) bool {
	return target == ErrPartialApproval
}

func (e *PartialApprovalError) Unwrap() error {
	return e.Err
}
