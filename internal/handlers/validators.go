package handlers

import (
	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs enum validators on Gin's binding engine.
// Must run before the first request is bound.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("casestatus", func(fl validator.FieldLevel) bool {
		return domain.CaseStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).IsValid()
	})
}
