package validator

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// echoのValidatorインターフェースに合わせた薄いラッパ
type CustomValidator struct {
	validate *validatorv10.Validate
}

func New() *CustomValidator {
	return &CustomValidator{validate: validatorv10.New()}
}

func (v *CustomValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
