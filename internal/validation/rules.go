package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"job-hunter-service/internal/entity"
)

const (
	salaryRangeTag = "salary_range"
	dateRangeTag   = "date_range"
)

func registerStructFn(fn validator.StructLevelFunc, types ...any) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		v.RegisterStructValidation(fn, types...)
	}
}

func NewJobAdValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerStructFn(jobAdInputRanges, entity.JobAdInput{}),
		},
		{
			Rule: registerStructFn(jobAdPatchRanges, entity.JobAdPatch{}),
		},
	}
}

func jobAdInputRanges(sl validator.StructLevel) {
	in := sl.Current().Interface().(entity.JobAdInput)
	checkRanges(sl, in.SalaryStart, in.SalaryEnd, in.OpenDate, in.CloseDate)
}

// Pairs are only checked when both sides are part of the patch.
func jobAdPatchRanges(sl validator.StructLevel) {
	p := sl.Current().Interface().(entity.JobAdPatch)
	checkRanges(sl, p.SalaryStart, p.SalaryEnd, p.OpenDate, p.CloseDate)
}

func checkRanges(sl validator.StructLevel, salaryStart, salaryEnd *float64, openDate, closeDate *time.Time) {
	if salaryStart != nil && salaryEnd != nil && *salaryStart > *salaryEnd {
		sl.ReportError(salaryEnd, "salaryEnd", "SalaryEnd", salaryRangeTag, "")
	}
	if openDate != nil && closeDate != nil && openDate.After(*closeDate) {
		sl.ReportError(closeDate, "closeDate", "CloseDate", dateRangeTag, "")
	}
}
