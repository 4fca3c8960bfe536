// Package form declares the synchronous validation schemas shared by the
// interactive screens and the CLI prompts. Validation failures never leave
// the form: a field that fails its schema never reaches the network.
package form

import "strings"

// Rule checks one field against the full value map (cross-field rules need
// the sibling values) and returns a message, or "" when the value passes.
type Rule func(values map[string]string, field string) string

type Field struct {
	Name  string
	Rules []Rule
}

type Schema []Field

// Validate runs every field's rules in order and collects the first
// failing message per field. An empty map means the input is valid.
func (s Schema) Validate(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, f := range s {
		for _, rule := range f.Rules {
			if msg := rule(values, f.Name); msg != "" {
				errs[f.Name] = msg
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func Required(msg string) Rule {
	return func(values map[string]string, field string) string {
		if strings.TrimSpace(values[field]) == "" {
			return msg
		}
		return ""
	}
}

func MinLen(n int, msg string) Rule {
	return func(values map[string]string, field string) string {
		if len(values[field]) < n {
			return msg
		}
		return ""
	}
}

// Email keeps the original contract: anything containing "@" passes. The
// server does the real verification by mailing the address.
func Email(msg string) Rule {
	return func(values map[string]string, field string) string {
		if !strings.Contains(values[field], "@") {
			return msg
		}
		return ""
	}
}

func Matches(other, msg string) Rule {
	return func(values map[string]string, field string) string {
		if values[field] != values[other] {
			return msg
		}
		return ""
	}
}

// The four flow schemas.

func Login() Schema {
	return Schema{
		{Name: "email", Rules: []Rule{Required("Email is required"), Email("Invalid email")}},
		{Name: "password", Rules: []Rule{Required("Password is required")}},
	}
}

func Signup() Schema {
	return Schema{
		{Name: "name", Rules: []Rule{Required("Name is required")}},
		{Name: "email", Rules: []Rule{Required("Email is required"), Email("Invalid email")}},
		{Name: "password", Rules: []Rule{MinLen(6, "Password must be at least 6 characters")}},
	}
}

func ForgotPassword() Schema {
	return Schema{
		{Name: "email", Rules: []Rule{Email("Invalid email")}},
	}
}

func ResetPassword() Schema {
	return Schema{
		{Name: "password", Rules: []Rule{MinLen(6, "Password must be at least 6 characters")}},
		{Name: "confirmPassword", Rules: []Rule{
			MinLen(6, "Confirm password is required"),
			Matches("password", "Passwords do not match"),
		}},
	}
}
