package availability

import "errors"

var (
	// ErrStore ошибка хранилища кэша
	ErrStore = errors.New("availability store error")
)
