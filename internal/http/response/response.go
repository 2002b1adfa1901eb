// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов об ошибках локальных обработчиков. Успешные ответы отдаются
// без обёртки: клиенты ждут сами объекты заявок и сводок.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/apierr"
)

// StatusError — значение статуса для ответа с ошибкой.
const StatusError = "Error"

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"unauthorized"`
	Code   string `json:"code,omitempty" example:"UNAUTHENTICATED"`
}

// Error возвращает ErrorResponse с переданным сообщением и кодом.
func Error(msg, code string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
		Code:   code,
	}
}

// FromError формирует ErrorResponse по ошибке из таксономии apierr.
func FromError(err error) ErrorResponse {
	return Error(apierr.PublicMessage(err), apierr.Code(err))
}

// WriteError пишет ошибку с HTTP-статусом, соответствующим её виду.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, apierr.HTTPStatus(err))
	render.JSON(w, r, FromError(err))
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человекочитаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required", lowerFirst(err.Field())))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be a uuid", lowerFirst(err.Field())))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be one of %s", lowerFirst(err.Field()), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid", lowerFirst(err.Field())))
		}
	}
	return Error(strings.Join(errsMsgs, ", "), apierr.CodeValidation)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
