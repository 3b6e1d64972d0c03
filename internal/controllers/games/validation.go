package gameController

import (
	"chip8arcade/internal/types"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldInstructions  = "instructions"
	FieldROM           = "game_rom"
	FieldEmulatorSpeed = "emulator_speed"

	MinEmulatorSpeed = 1
	MaxEmulatorSpeed = 1000

	messageRequired   = "This field is required."
	messageTitleChars = "Title may only contain letters, numbers, spaces and . ? ! , '"
	messageNoConfig   = "a key configuration is required before the emulator speed can be set"
)

var titlePattern = regexp.MustCompile(`^[A-Za-z0-9 .?!,']+$`)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("gametitle", func(fl validator.FieldLevel) bool {
		return titlePattern.MatchString(fl.Field().String())
	})

	return validate
}

// collectValidation turns validator field errors into form messages.
func collectValidation(err error, verr *types.ValidationError) error {
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, fieldError := range fieldErrors {
		verr.AddField(fieldError.Field(), validationMessage(fieldError))
	}
	return nil
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return messageRequired
	case "gametitle":
		return messageTitleChars
	case "min", "max":
		if fieldError.Kind() == reflect.String {
			return lengthMessage(fieldError)
		}
		return fmt.Sprintf(
			"Number must be between %d and %d.",
			MinEmulatorSpeed,
			MaxEmulatorSpeed,
		)
	default:
		return fmt.Sprintf("Invalid value for %s.", fieldError.Field())
	}
}

func lengthMessage(fieldError validator.FieldError) string {
	if fieldError.Tag() == "min" {
		return fmt.Sprintf("Field must be at least %s characters long.", fieldError.Param())
	}
	return fmt.Sprintf("Field must be between 1 and %s characters long.", fieldError.Param())
}

// FileSizeMessage renders the upload limit with a binary unit prefix, e.g.
// 4096 becomes "Files must be less than 4.0 kilobytes in size."
func FileSizeMessage(maxSize int) string {
	prefixes := []string{"", "kilo", "mega", "giga"}
	size := float64(maxSize)
	index := 0

	for size > 1024 && index < len(prefixes)-1 {
		size /= 1024
		index++
	}

	formatted := strconv.FormatFloat(size, 'f', -1, 64)
	if index > 0 && !strings.Contains(formatted, ".") {
		formatted += ".0"
	}

	return fmt.Sprintf("Files must be less than %s %sbytes in size.", formatted, prefixes[index])
}
