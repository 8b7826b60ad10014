package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Игровые сессии
	SessionNotFound     failure.ErrorCode = "SessionNotFound"     // Сессия истекла или не создавалась
	InvalidSessionID    failure.ErrorCode = "InvalidSessionID"    // Не xid
	InvalidAction       failure.ErrorCode = "InvalidAction"       // Неизвестное действие
	ActionInapplicable  failure.ErrorCode = "ActionInapplicable"  // Действие недоступно в текущей стадии
	InvalidRules        failure.ErrorCode = "InvalidRules"        // Файл правил не прошёл проверку
	RunNotRecorded      failure.ErrorCode = "RunNotRecorded"      // Журнал партий недоступен
	LeaderboardDisabled failure.ErrorCode = "LeaderboardDisabled" // Таблица лидеров недоступна
)
