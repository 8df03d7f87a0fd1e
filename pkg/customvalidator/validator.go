// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// EmpIDPattern описывает бизнес-идентификатор заявки, EMP + цифры.
var EmpIDPattern = regexp.MustCompile(`^EMP(\d+)$`)

// RegisterCustomValidations регистрирует наши правила в переданном валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("emp_id", isEmpID); err != nil {
		return err
	}
	return nil
}

func isEmpID(fl validator.FieldLevel) bool {
	return EmpIDPattern.MatchString(fl.Field().String())
}

// New: валидатор с уже зарегистрированными кастомными правилами.
func New() (*validator.Validate, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return v, nil
}
