package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	m "autotest.dev/pkg/autotest/internal/model"
)

// Threshold bounds accepted for a run.
const (
	MinThreshold = 50
	MaxThreshold = 100
)

// UploadedFile is one submitted source file before validation.
type UploadedFile struct {
	Name    string `validate:"required,gofile"`
	Content []byte `validate:"utf8content"`
}

// RunRequest is the raw, unvalidated input of a pipeline run.
type RunRequest struct {
	Files         []UploadedFile `validate:"required,min=1,unique=Name,dive"`
	Threshold     int            `validate:"gte=50,lte=100"`
	MaxIterations int
}

// RunConfig is the validated configuration of one run.
type RunConfig struct {
	Threshold     float64
	MaxIterations int
}

// Intake validates run requests and turns them into a source set.
type Intake struct {
	validate           *validator.Validate
	maxIterationsLimit int
}

var fileIndexPattern = regexp.MustCompile(`Files\[(\d+)\]`)

// NewIntake constructs an Intake that accepts max_iterations in [1, maxIterationsLimit].
func NewIntake(maxIterationsLimit int) *Intake {
	validate := validator.New()
	_ = validate.RegisterValidation("gofile", validateGoFileName)
	_ = validate.RegisterValidation("utf8content", validateUTF8)

	if maxIterationsLimit < 1 {
		maxIterationsLimit = 1
	}

	return &Intake{validate: validate, maxIterationsLimit: maxIterationsLimit}
}

// MaxIterationsLimit returns the largest accepted max_iterations.
func (i *Intake) MaxIterationsLimit() int {
	return i.maxIterationsLimit
}

func validateGoFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()

	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}

	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") && len(name) > len(".go")
}

func validateUTF8(fl validator.FieldLevel) bool {
	return utf8.Valid(fl.Field().Bytes())
}

// Validate checks req and returns the accepted modules and run configuration.
// Every failure is a *ValidationError.
func (i *Intake) Validate(req RunRequest) (m.SourceSet, RunConfig, error) {
	if err := i.validate.Struct(req); err != nil {
		return m.SourceSet{}, RunConfig{}, i.translate(req, err)
	}

	if err := i.validate.Var(req.MaxIterations, "gte=1,lte="+strconv.Itoa(i.maxIterationsLimit)); err != nil {
		return m.SourceSet{}, RunConfig{}, newValidationError("max_iterations",
			"must be an integer between 1 and %d, got %d", i.maxIterationsLimit, req.MaxIterations)
	}

	modules := make([]m.SourceModule, 0, len(req.Files))
	for _, file := range req.Files {
		modules = append(modules, m.SourceModule{Name: file.Name, Content: file.Content})
	}

	sources, err := m.NewSourceSet(modules...)
	if err != nil {
		return m.SourceSet{}, RunConfig{}, newValidationError("files", "%v", err)
	}

	return sources, RunConfig{Threshold: float64(req.Threshold), MaxIterations: req.MaxIterations}, nil
}

func (i *Intake) translate(req RunRequest, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return newValidationError("", "%v", err)
	}

	fe := validationErrors[0]

	switch fe.StructField() {
	case "Files":
		if fe.Tag() == "unique" {
			return newValidationError("files", "duplicate file names")
		}

		return newValidationError("files", "no files submitted")
	case "Name":
		name := fmt.Sprint(fe.Value())
		if name == "" {
			return newValidationError("files", "file name is empty")
		}

		return newValidationError("files", "invalid file extension for %q: only non-test .go files are accepted", name)
	case "Content":
		return newValidationError("files", "file %q is not valid UTF-8", fileNameAt(req, fe.Namespace()))
	case "Threshold":
		return newValidationError("threshold", "must be an integer between %d and %d, got %d", MinThreshold, MaxThreshold, req.Threshold)
	default:
		return newValidationError(strings.ToLower(fe.Field()), "failed %q check", fe.Tag())
	}
}

func fileNameAt(req RunRequest, namespace string) string {
	match := fileIndexPattern.FindStringSubmatch(namespace)
	if match == nil {
		return ""
	}

	idx, err := strconv.Atoi(match[1])
	if err != nil || idx >= len(req.Files) {
		return ""
	}

	return req.Files[idx].Name
}
