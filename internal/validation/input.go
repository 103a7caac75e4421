package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength        = 1
	MaxNameLength        = 100
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MinCoverLetterLength = 10
	MaxCoverLetterLength = 2000
	MaxBioLength         = 1000
	MaxCommentLength     = 2000
	MaxSkillLength       = 50
	MaxSkillsCount       = 50
	MaxBudget            = 100000000.0 // 100 миллионов
	MinRating            = 1
	MaxRating            = 5
	MaxMilestonesPerPlan = 50
)

// DateLayout — формат календарных дат на границе API (due date, deadline).
const DateLayout = "2006-01-02"

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	return nil
}

// ParseDate разбирает календарную дату формата YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("дата должна быть в формате YYYY-MM-DD")
	}
	return date, nil
}

// ValidateFutureDate разбирает дату и требует, чтобы она была строго в будущем.
func ValidateFutureDate(value string) (time.Time, error) {
	date, err := ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if !date.After(today) {
		return time.Time{}, fmt.Errorf("дата должна быть в будущем")
	}
	return date, nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("рейтинг должен быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}
