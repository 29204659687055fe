package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationDetails 把 binding 错误转为逐字段描述
func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return details
}
