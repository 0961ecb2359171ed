package schema

import (
	"net/url"
	"regexp"

	"github.com/statelab/statelab/internal/models"
)

// Syntactic check only, no network verification.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func checkName(name string) *FieldError {
	if name == "" {
		return &FieldError{Path: "name", Message: "Name is required"}
	}
	return nil
}

func checkEmail(email string) *FieldError {
	if !emailPattern.MatchString(email) {
		return &FieldError{Path: "email", Message: "Invalid email format"}
	}
	return nil
}

// Website must be a valid http(s) URL or empty.
func checkWebsite(raw string) *FieldError {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FieldError{Path: "website", Message: "Invalid URL format"}
	}
	return nil
}

func checkNewUser(in models.NewUser) []FieldError {
	return collect(checkName(in.Name), checkEmail(in.Email), checkWebsite(in.Website))
}

// CheckNewUser validates the caller-supplied fields of a user. Username and
// phone are optional free text; website must be a valid URL or empty.
func CheckNewUser(in models.NewUser) Result {
	return resultOf(checkNewUser(in))
}

func ValidateNewUser(in models.NewUser) error {
	return errorOf(checkNewUser(in))
}

// CheckUserUpdate validates only the fields present in a partial update.
func CheckUserUpdate(upd models.UserUpdate) Result {
	var checks []*FieldError
	if upd.Name != nil {
		checks = append(checks, checkName(*upd.Name))
	}
	if upd.Email != nil {
		checks = append(checks, checkEmail(*upd.Email))
	}
	if upd.Website != nil {
		checks = append(checks, checkWebsite(*upd.Website))
	}
	return resultOf(collect(checks...))
}

func checkUser(u models.User) []FieldError {
	errs := checkNewUser(models.NewUser{
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		Phone:    u.Phone,
		Website:  u.Website,
	})
	if u.ID <= 0 {
		errs = append(errs, FieldError{Path: "id", Message: "Id must be a positive integer"})
	}
	return errs
}

// CheckUser validates a full user record, store-assigned fields included.
func CheckUser(u models.User) Result {
	return resultOf(checkUser(u))
}

func ValidateUser(u models.User) error {
	return errorOf(checkUser(u))
}
