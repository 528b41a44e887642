package models

import "errors"

// Ошибки бизнес-правил. Сервисы возвращают их без обёртки,
// обработчики сопоставляют через errors.Is с HTTP-статусами.
var (
	// ErrTenderNotFound тендер с указанным идентификатором отсутствует.
	ErrTenderNotFound = errors.New("tender not found")
	// ErrBidNotFound предложение с указанным идентификатором отсутствует.
	ErrBidNotFound = errors.New("bid not found")
	// ErrUserNotFound пользователь с указанным идентификатором отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken адрес электронной почты уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTenderNotAcceptingBids тендер не находится в фазе приёма предложений.
	ErrTenderNotAcceptingBids = errors.New("tender is not accepting bids")
	// ErrDuplicateBid участник уже подал предложение по этому тендеру.
	ErrDuplicateBid = errors.New("you already submitted a bid for this tender")
	// ErrBidExceedsBudget сумма предложения превышает бюджет тендера.
	ErrBidExceedsBudget = errors.New("bid amount exceeds tender budget")

	// ErrInvalidDeadline срок подачи предложений не разобран как дата RFC3339.
	ErrInvalidDeadline = errors.New("invalid deadline format, expected RFC3339")

	// ErrAccessDenied недостаточно прав для просмотра или изменения ресурса.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveUser учетная запись деактивирована администратором.
	ErrInactiveUser = errors.New("inactive user")

	// ErrLicenseInvalid лицензия системы не прошла проверку;
	// текст причины добавляется через fmt.Errorf("%w: ...").
	ErrLicenseInvalid = errors.New("license invalid")
	// ErrLicenseKeyRequired лицензионный ключ не указан.
	ErrLicenseKeyRequired = errors.New("license key is required")
)
