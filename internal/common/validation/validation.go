package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	// Максимальные длины для различных полей
	MaxLevelNameLength = 32
	MaxItemIDLength    = 64
)

// Имена уровней: заглавные латинские буквы, цифры и подчеркивания
var levelNameRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ValidateLevelName проверяет имя уровня из конфигурации
func ValidateLevelName(name string) error {
	if name == "" {
		return fmt.Errorf("level name cannot be empty")
	}
	if len(name) > MaxLevelNameLength {
		return fmt.Errorf("level name %q cannot exceed %d characters", name, MaxLevelNameLength)
	}
	if !levelNameRegex.MatchString(name) {
		return fmt.Errorf("level name %q must be upper case letters, digits and underscores", name)
	}
	return nil
}

// ValidateItemID проверяет id предмета магазина. Id бывают эмодзи, поэтому длина в символах.
func ValidateItemID(id string) error {
	if id == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("item id must be valid UTF-8")
	}
	if utf8.RuneCountInString(id) > MaxItemIDLength {
		return fmt.Errorf("item id cannot exceed %d characters", MaxItemIDLength)
	}
	return nil
}

// ValidateScore проверяет, что счёт раунда лежит в [0, max]
func ValidateScore(score, max int) error {
	if score < 0 {
		return fmt.Errorf("score cannot be negative")
	}
	if score > max {
		return fmt.Errorf("score cannot exceed %d", max)
	}
	return nil
}

// ValidateNonNegativeInt проверяет неотрицательное число
func ValidateNonNegativeInt(value int64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}
