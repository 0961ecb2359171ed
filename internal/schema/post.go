package schema

import (
	"unicode/utf8"

	"github.com/statelab/statelab/internal/models"
)

// Bounds are inclusive character counts.
const (
	TitleMin  = 3
	TitleMax  = 200
	BodyMin   = 10
	BodyMax   = 2000
	AuthorMin = 4
	AuthorMax = 30
)

func checkTitle(title string) *FieldError {
	switch n := utf8.RuneCountInString(title); {
	case n < TitleMin:
		return &FieldError{Path: "title", Message: "Title is required"}
	case n > TitleMax:
		return &FieldError{Path: "title", Message: "Title must be less than 200 characters"}
	}
	return nil
}

func checkBody(body string) *FieldError {
	switch n := utf8.RuneCountInString(body); {
	case n < BodyMin:
		return &FieldError{Path: "body", Message: "Body must be at least 10 characters"}
	case n > BodyMax:
		return &FieldError{Path: "body", Message: "Body must be less than 2000 characters"}
	}
	return nil
}

func checkAuthor(author string) *FieldError {
	switch n := utf8.RuneCountInString(author); {
	case n < AuthorMin:
		return &FieldError{Path: "author", Message: "Author is required"}
	case n > AuthorMax:
		return &FieldError{Path: "author", Message: "Author name must be less than 30 characters"}
	}
	return nil
}

func collect(checks ...*FieldError) []FieldError {
	var errs []FieldError
	for _, fe := range checks {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func checkNewPost(in models.NewPost) []FieldError {
	return collect(checkTitle(in.Title), checkBody(in.Body), checkAuthor(in.Author))
}

// CheckNewPost validates the caller-supplied fields of a post and reports
// every violated field.
func CheckNewPost(in models.NewPost) Result {
	return resultOf(checkNewPost(in))
}

// ValidateNewPost is the error-returning form of CheckNewPost. A non-nil
// return is always a *ValidationError carrying the same field errors.
func ValidateNewPost(in models.NewPost) error {
	return errorOf(checkNewPost(in))
}

// CheckPostUpdate validates only the fields present in a partial update.
func CheckPostUpdate(upd models.PostUpdate) Result {
	var checks []*FieldError
	if upd.Title != nil {
		checks = append(checks, checkTitle(*upd.Title))
	}
	if upd.Body != nil {
		checks = append(checks, checkBody(*upd.Body))
	}
	if upd.Author != nil {
		checks = append(checks, checkAuthor(*upd.Author))
	}
	return resultOf(collect(checks...))
}

func checkPost(p models.Post) []FieldError {
	errs := checkNewPost(models.NewPost{Title: p.Title, Body: p.Body, Author: p.Author})
	if p.ID <= 0 {
		errs = append(errs, FieldError{Path: "id", Message: "Id must be a positive integer"})
	}
	return errs
}

// CheckPost validates a full post record, store-assigned fields included.
func CheckPost(p models.Post) Result {
	return resultOf(checkPost(p))
}

func ValidatePost(p models.Post) error {
	return errorOf(checkPost(p))
}
