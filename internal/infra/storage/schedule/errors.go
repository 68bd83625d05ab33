package schedule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило расписания не найдено
	// Для resolver'а это нормальный исход: у сотрудника нет расписания на день
	ErrRuleNotFound = errors.New("schedule.repository: rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
