package geo

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxResponseSize bounds what is read from a provider. Real answers are
// well under 2KB.
const maxResponseSize = 64 << 10

var validate = validator.New()

// normalizeCountryCode upper-cases code and checks it is an assigned
// ISO 3166-1 alpha-2 code. Some providers answer "UK" for Britain.
func normalizeCountryCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "UK" {
		code = "GB"
	}

	if err := validate.Var(code, "required,iso3166_1_alpha2"); err != nil {
		return "", false
	}

	return code, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
