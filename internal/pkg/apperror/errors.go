package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"

	ErrCodeProjectNotFound   ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeProposalNotFound  ErrorCode = "PROPOSAL_NOT_FOUND"
	ErrCodeMilestoneNotFound ErrorCode = "MILESTONE_NOT_FOUND"
	ErrCodeContractNotFound  ErrorCode = "CONTRACT_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"

	ErrCodeProjectNotOpen              ErrorCode = "PROJECT_NOT_OPEN"
	ErrCodeProposalAlreadyExists       ErrorCode = "PROPOSAL_ALREADY_EXISTS"
	ErrCodeProposalAlreadyProcessed    ErrorCode = "PROPOSAL_ALREADY_PROCESSED"
	ErrCodeInvalidMilestoneAmounts     ErrorCode = "INVALID_MILESTONE_AMOUNTS"
	ErrCodeMilestoneAlreadySubmitted   ErrorCode = "MILESTONE_ALREADY_SUBMITTED"
	ErrCodeMilestoneNotSubmitted       ErrorCode = "MILESTONE_NOT_SUBMITTED"
	ErrCodePreviousMilestoneIncomplete ErrorCode = "PREVIOUS_MILESTONE_INCOMPLETE"
	ErrCodeAlreadyReviewed             ErrorCode = "ALREADY_REVIEWED"
)

// AppError — закрытый тип доменных ошибок. Код всегда один из констант выше,
// по нему же определяется HTTP статус на границе транспорта.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is позволяет сравнивать ошибки через errors.Is по коду.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeProjectNotFound, ErrCodeProposalNotFound, ErrCodeMilestoneNotFound,
		ErrCodeContractNotFound, ErrCodeUserNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// From извлекает *AppError из цепочки ошибок.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := From(err)
	return ok && appErr.HTTPStatus == http.StatusNotFound
}

func IsForbidden(err error) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == ErrCodeForbidden
}

// Предопределённые доменные ошибки.
var (
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "неверные учетные данные")
	ErrEmailTaken         = New(ErrCodeEmailTaken, "email уже зарегистрирован")

	ErrProjectNotFound   = New(ErrCodeProjectNotFound, "проект не найден")
	ErrProposalNotFound  = New(ErrCodeProposalNotFound, "предложение не найдено")
	ErrMilestoneNotFound = New(ErrCodeMilestoneNotFound, "этап не найден")
	ErrContractNotFound  = New(ErrCodeContractNotFound, "контракт не найден")
	ErrUserNotFound      = New(ErrCodeUserNotFound, "пользователь не найден")

	ErrProjectNotOpen              = New(ErrCodeProjectNotOpen, "проект закрыт для новых предложений")
	ErrProposalAlreadyExists       = New(ErrCodeProposalAlreadyExists, "предложение к этому проекту уже отправлено")
	ErrProposalAlreadyProcessed    = New(ErrCodeProposalAlreadyProcessed, "предложение уже обработано")
	ErrInvalidMilestoneAmounts     = New(ErrCodeInvalidMilestoneAmounts, "сумма этапов не совпадает с ценой предложения")
	ErrMilestoneAlreadySubmitted   = New(ErrCodeMilestoneAlreadySubmitted, "этап уже сдан")
	ErrMilestoneNotSubmitted       = New(ErrCodeMilestoneNotSubmitted, "этап не находится в статусе submitted")
	ErrPreviousMilestoneIncomplete = New(ErrCodePreviousMilestoneIncomplete, "предыдущие этапы ещё не приняты")
	ErrAlreadyReviewed             = New(ErrCodeAlreadyReviewed, "отзыв на этот контракт уже оставлен")
)
