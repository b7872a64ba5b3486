package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rules describes how a piece of user input is validated
type Rules struct {
	MinLength int
	MaxLength int // 0 means unlimited
	Pattern   *regexp.Regexp
	Required  bool
}

// Result is the outcome of ValidateInput
type Result struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRules validates newsletter signup addresses
var EmailRules = Rules{
	MaxLength: 254,
	Pattern:   emailPattern,
	Required:  true,
}

// ValidateInput checks input against the given rules. Blank input is valid
// unless the rules mark it as required.
func ValidateInput(input string, rules Rules) Result {
	blank := strings.TrimSpace(input) == ""
	if blank {
		if rules.Required {
			return Result{IsValid: false, Message: "This field is required"}
		}
		return Result{IsValid: true}
	}

	length := utf8.RuneCountInString(input)
	if length < rules.MinLength {
		return Result{IsValid: false, Message: fmt.Sprintf("Must be at least %d characters", rules.MinLength)}
	}
	if rules.MaxLength > 0 && length > rules.MaxLength {
		return Result{IsValid: false, Message: fmt.Sprintf("Must be less than %d characters", rules.MaxLength)}
	}
	if rules.Pattern != nil && !rules.Pattern.MatchString(input) {
		return Result{IsValid: false, Message: "Invalid format"}
	}

	return Result{IsValid: true}
}
