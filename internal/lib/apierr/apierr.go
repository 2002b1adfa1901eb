// Package apierr описывает таксономию ошибок шлюза и её отображение на HTTP-статусы.
//
// Ошибка несёт структурированный вид (Kind) и машиночитаемый код (Code), чтобы
// клиенты различали, например, исчерпанный лимит заявок без разбора текста сообщения.
package apierr

import (
	"errors"
	"net/http"
)

// Kind — вид ошибки.
type Kind int

const (
	// KindInternal — внутренняя ошибка или сбой базы данных.
	KindInternal Kind = iota
	// KindUnauthenticated — токен отсутствует или невалиден.
	KindUnauthenticated
	// KindNotFound — ресурс не найден или принадлежит другому пользователю.
	KindNotFound
	// KindValidation — не передано обязательное поле или оно некорректно.
	KindValidation
	// KindUpstream — недоступен сервис авторизации, база или апстрим.
	KindUpstream
	// KindLimitReached — исчерпан лимит заявок по тарифу.
	KindLimitReached
)

// Машиночитаемые коды ошибок в теле ответа.
const (
	CodeInternal        = "INTERNAL"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_FAILED"
	CodeUpstream        = "UPSTREAM_FAILURE"
	CodeLimitReached    = "LIMIT_REACHED"
)

// Error — ошибка с видом, кодом и сообщением для клиента.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку заданного вида с кодом по умолчанию.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Code: DefaultCode(kind), Message: msg}
}

// Wrap создаёт ошибку заданного вида поверх причины.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Code: DefaultCode(kind), Message: msg, Err: err}
}

// Unauthenticated — ошибка отсутствующего или невалидного токена.
func Unauthenticated() *Error {
	return New(KindUnauthenticated, "unauthorized")
}

// NotFound — ресурс не найден или не принадлежит пользователю.
func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

// Validation — ошибка валидации входных данных.
func Validation(msg string) *Error {
	return New(KindValidation, msg)
}

// DefaultCode возвращает код ошибки для вида.
func DefaultCode(kind Kind) string {
	switch kind {
	case KindUnauthenticated:
		return CodeUnauthenticated
	case KindNotFound:
		return CodeNotFound
	case KindValidation:
		return CodeValidation
	case KindUpstream:
		return CodeUpstream
	case KindLimitReached:
		return CodeLimitReached
	default:
		return CodeInternal
	}
}

// KindOf возвращает вид ошибки; ошибки вне таксономии считаются внутренними.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is сообщает, относится ли ошибка к заданному виду.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsLimitReached сообщает, что апстрим отклонил заявку из-за исчерпанного лимита.
func IsLimitReached(err error) bool {
	return Is(err, KindLimitReached)
}

// HTTPStatus возвращает HTTP-статус для локальных обработчиков.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindLimitReached:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает сообщение, которое можно отдать клиенту.
// Для внутренних ошибок причина не раскрывается.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}

// Code возвращает машиночитаемый код ошибки.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return CodeInternal
}

// FromStatus восстанавливает вид ошибки по HTTP-статусу и коду из тела ответа.
// Код LIMIT_REACHED имеет приоритет над статусом.
func FromStatus(status int, code, msg string) *Error {
	if code == CodeLimitReached {
		return &Error{Kind: KindLimitReached, Code: code, Message: msg}
	}
	var kind Kind
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthenticated
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		kind = KindUpstream
	default:
		kind = KindInternal
	}
	if code == "" {
		code = DefaultCode(kind)
	}
	return &Error{Kind: kind, Code: code, Message: msg}
}
