package marketplace

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from every text field.
func (p *NewPost) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.ServiceType = strings.TrimSpace(p.ServiceType)
	p.Salary = strings.TrimSpace(p.Salary)
	p.City = strings.TrimSpace(p.City)
	p.Area = strings.TrimSpace(p.Area)
	p.Description = strings.TrimSpace(p.Description)
	p.WorkSchedule = strings.TrimSpace(p.WorkSchedule)
}

// MissingFields returns the JSON names of the required fields that are empty,
// in declaration order. It does not modify p.
func (p NewPost) MissingFields() []string {
	p.Normalize()
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// FieldLabels are the form labels of the post fields.
var FieldLabels = map[string]string{
	"title":         "عنوان المنشور",
	"service_type":  "نوع الخدمة",
	"salary":        "الراتب المطلوب",
	"city":          "المدينة",
	"area":          "المنطقة",
	"description":   "وصف الخدمة",
	"work_schedule": "نوع الدوام",
}
