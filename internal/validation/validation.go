// Package validation normalizes request bodies and checks every field
// against its pattern, reporting all failing fields at once.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	emailPattern    = regexp.MustCompile(`.+@.+\..+`)
	swiftPattern    = regexp.MustCompile(`^[A-Za-z0-9]{4,11}$`)
	ibanPattern     = regexp.MustCompile(`^[A-Za-z0-9]{10,34}$`)
	amountPattern   = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, re := range map[string]*regexp.Regexp{
		"looseemail": emailPattern,
		"swift":      swiftPattern,
		"iban":       ibanPattern,
		"amount":     amountPattern,
		"currency":   currencyPattern,
	} {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return v
}

// FieldError describes one field that failed validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Errors is the full list of failing fields of a request
type Errors []FieldError

func (e Errors) Error() string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Input is a request body that knows how to normalize itself
type Input interface {
	Sanitize()
}

// Check sanitizes in and validates every field. It returns Errors listing
// every failing field, or nil.
func Check(in Input) error {
	in.Sanitize()

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Type:    fe.Tag(),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "looseemail":
		return "Invalid email format"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "swift":
		return "SWIFT code must be 4-11 letters or digits"
	case "iban":
		return "IBAN must be 10-34 letters or digits"
	case "amount":
		return "Amount must be a non-negative number with at most 2 decimals"
	case "currency":
		return "Currency must be 3 uppercase letters"
	default:
		return "Invalid value"
	}
}

// Amount is a decimal amount kept as the exact text the client sent. It
// accepts either a JSON string or a JSON number.
type Amount string

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Decimal parses the amount; call it only after validation succeeded
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(a))
}

// RegisterInput is the body of POST /api/register
type RegisterInput struct {
	Email    string `json:"email" validate:"looseemail"`
	FullName string `json:"fullName" validate:"min=2"`
	Password string `json:"password" validate:"min=4"`
}

// Sanitize trims every field
func (in *RegisterInput) Sanitize() {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Password = strings.TrimSpace(in.Password)
}

// LoginInput is the body of POST /api/login
type LoginInput struct {
	Email    string `json:"email" validate:"looseemail"`
	Password string `json:"password" validate:"min=1"`
}

// Sanitize trims every field
func (in *LoginInput) Sanitize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
}

// PaymentInput is the body of POST /api/payments
type PaymentInput struct {
	BeneficiaryName string `json:"beneficiaryName" validate:"min=2"`
	Swift           string `json:"swift" validate:"swift"`
	IBAN            string `json:"iban" validate:"iban"`
	Amount          Amount `json:"amount" validate:"amount"`
	Currency        string `json:"currency" validate:"currency"`
	Reference       string `json:"reference" validate:"max=50"`
}

// Sanitize trims every field and uppercases the fixed-case codes
func (in *PaymentInput) Sanitize() {
	in.BeneficiaryName = strings.TrimSpace(in.BeneficiaryName)
	in.Swift = strings.ToUpper(strings.TrimSpace(in.Swift))
	in.IBAN = strings.ToUpper(strings.TrimSpace(in.IBAN))
	in.Amount = Amount(strings.TrimSpace(string(in.Amount)))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Reference = strings.TrimSpace(in.Reference)
}
