package blogservice

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sushihentaime/blogist/internal/common"
)

var validate = newValidate()

// newValidate reports field errors under their form names.
func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func validateCreateForm(v *common.Validator, form *CreateBlogForm) {
	err := validate.Struct(form)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("form", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			v.AddError(fe.Field(), "must be provided")
		default:
			v.AddError(fe.Field(), "is invalid")
		}
	}
}

func validateID(v *common.Validator, id ID) {
	v.Check(strings.TrimSpace(id.String()) != "", "id", "must be provided")
}
