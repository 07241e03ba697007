package domain

// Значения по умолчанию для расписания компании
const (
	DefaultSlotMinutes = 30
	DefaultStartTime   = "09:00"
	DefaultEndTime     = "18:00"
	DefaultWorkingDays = "1,2,3,4,5" // понедельник - пятница
)

// Ограничения бизнес-валидации
const (
	MinSlotMinutes         = 1
	MaxSlotMinutes         = 480 // 8 часов
	MinDurationMinutes     = 1
	MaxDurationMinutes     = 1440
	MaxNotesLength         = 500
	MaxClientNameLength    = 200
	MaxClientContactLength = 200
)

// Форматы времени
const (
	TimeFormat          = "15:04"      // HH:MM
	DateFormat          = "2006-01-02" // YYYY-MM-DD
	LocalDateTimeFormat = "2006-01-02 15:04:05"
)

// Роли актора, приходящие из внешнего слоя аутентификации
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)
