package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"job-hunter-service/internal/entity"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator decodes raw job ad payloads, coerces their values and runs the
// structural and cross-field rules.
type Validator struct {
	validator *validator.Validate
	rules     []ValidationRule
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validator: v}
}

// New returns a validator with the job ad rules registered.
func New() *Validator {
	v := NewValidator()
	v.Register(NewJobAdValidationRules()...)
	return v
}

func (v *Validator) Register(rules ...ValidationRule) {
	for _, validationRule := range rules {
		validationRule.Rule(v.validator)
	}
	v.rules = append(v.rules, rules...)
}

func (v *Validator) Struct(s any) error {
	if err := v.validator.Struct(s); err != nil {
		return fromValidatorError(err)
	}
	return nil
}

// DecodeCreate validates a create payload. Unknown fields are rejected.
func (v *Validator) DecodeCreate(body []byte) (entity.JobAdInput, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return entity.JobAdInput{}, err
	}

	patch, err := decodeFields(raw)
	if err != nil {
		return entity.JobAdInput{}, err
	}

	in := patch.Input()
	if err := v.Struct(in); err != nil {
		return entity.JobAdInput{}, err
	}
	return in, nil
}

// DecodePatch validates a partial update payload. Identity fields are dropped
// before the strict field check, so a patch can never change them.
func (v *Validator) DecodePatch(body []byte) (entity.JobAdPatch, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return entity.JobAdPatch{}, err
	}
	for _, k := range identityFields {
		delete(raw, k)
	}

	patch, err := decodeFields(raw)
	if err != nil {
		return entity.JobAdPatch{}, err
	}

	if err := v.Struct(patch); err != nil {
		return entity.JobAdPatch{}, err
	}
	return patch, nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
