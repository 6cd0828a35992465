package validation

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/uehara-kazuya/leadlens/pkg/pagination"
)

var (
	v      *validator.Validate
	weekRe = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}の週$`)
)

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: analysis dimension must be one of the supported segment fields.
		_ = v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty means the tool default; pair with omitempty
			}
			switch s {
			case "担当者", "事業内容", "経路":
				return true
			}
			return false
		})
		// Custom: week filter is "all", empty, or a Monday-anchored week key.
		_ = v.RegisterValidation("weekkey", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" || s == "all" {
				return true
			}
			return weekRe.MatchString(s)
		})
		// Custom: cursor must be decodable via pagination.Decode.
		_ = v.RegisterValidation("cursor", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty is allowed; use omitempty with this tag
			}
			if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
				return false
			}
			if _, err := pagination.Decode(s); err != nil {
				return false
			}
			return true
		})
		// Custom: workbook path must have a supported spreadsheet extension.
		_ = v.RegisterValidation("workbook_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".xlsx") || strings.HasSuffix(s, ".xlsm") || strings.HasSuffix(s, ".xltx") || strings.HasSuffix(s, ".xltm")
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "dimension":
				return "VALIDATION: dimension must be one of 担当者, 事業内容, 経路"
			case "weekkey":
				return "VALIDATION: week must be \"all\" or a key like 2024/05/13の週 (see list_weeks)"
			case "cursor":
				return "CURSOR_INVALID: failed to decode cursor; restart pagination from the first page"
			case "workbook_ext":
				return "VALIDATION: path must be a spreadsheet file (.xlsx, .xlsm, .xltx, .xltm)"
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			case "oneof":
				return fmt.Sprintf("VALIDATION: %s must be one of %s", field, fe.Param())
			}
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
