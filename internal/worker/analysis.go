package worker

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/thoas/go-funk"

	"job-hunter-service/internal/entity"
)

// Analysis is stored as the status result of a processed job ad.
type Analysis struct {
	WordCount       int      `json:"wordCount"`
	TechnicalSkills []string `json:"technicalSkills"`
	SalaryMidpoint  *float64 `json:"salaryMidpoint,omitempty"`
	DaysOpen        *int     `json:"daysOpen,omitempty"`
	Open            bool     `json:"open"`
}

// skills maps lower-cased tokens to their display name.
var skills = map[string]string{
	"go":         "Go",
	"golang":     "Go",
	"python":     "Python",
	"java":       "Java",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"node":       "Node.js",
	"react":      "React",
	"c#":         "C#",
	"c++":        "C++",
	"sql":        "SQL",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mongodb":    "MongoDB",
	"redis":      "Redis",
	"kafka":      "Kafka",
	"docker":     "Docker",
	"kubernetes": "Kubernetes",
	"aws":        "AWS",
	"azure":      "Azure",
	"gcp":        "GCP",
	"rest":       "REST",
	"graphql":    "GraphQL",
	"grpc":       "gRPC",
	"oauth":      "OAuth",
	"json":       "JSON",
	"xml":        "XML",
	"terraform":  "Terraform",
	"linux":      "Linux",
	"git":        "Git",
}

func Analyze(job entity.JobAd, now time.Time) Analysis {
	tokens := strings.FieldsFunc(job.JobDescription, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})

	found := []string{}
	for _, tok := range tokens {
		if name, ok := skills[strings.ToLower(tok)]; ok {
			found = append(found, name)
		}
	}

	a := Analysis{
		WordCount:       len(strings.Fields(job.JobDescription)),
		TechnicalSkills: funk.UniqString(found),
		Open:            isOpen(job, now),
	}

	if job.SalaryStart != nil && job.SalaryEnd != nil {
		mid := (*job.SalaryStart + *job.SalaryEnd) / 2
		a.SalaryMidpoint = &mid
	}

	if job.OpenDate != nil && job.CloseDate != nil {
		days := int(math.Round(job.CloseDate.Sub(*job.OpenDate).Hours() / 24))
		a.DaysOpen = &days
	}

	return a
}

func isOpen(job entity.JobAd, now time.Time) bool {
	if job.OpenDate != nil && now.Before(*job.OpenDate) {
		return false
	}
	if job.CloseDate != nil && now.After(*job.CloseDate) {
		return false
	}
	return true
}
