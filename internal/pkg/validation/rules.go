package validation

import "regexp"

// Password length bounds. The upper bound is the bcrypt input limit;
// longer inputs make bcrypt return an error instead of a hash.
const (
	PasswordMinLength = 6
	PasswordMaxLength = 72
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Password reports whether a plaintext password satisfies the account
// password policy.
func Password(value string) bool {
	return len(value) >= PasswordMinLength && len(value) <= PasswordMaxLength
}

// Username reports whether a username uses only the allowed character set.
// Length bounds are enforced at the request binding layer.
func Username(value string) bool {
	return usernamePattern.MatchString(value)
}
