// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/api2spec/desc2spec/pkg/types"
)

// Extension keys synthesized by exporters.
const (
	// ExtOneOf carries a oneOf composition for the dialect without one.
	ExtOneOf = "x-desc2spec-one-of"

	// ExtAnyOf carries an anyOf composition for the dialect without one.
	ExtAnyOf = "x-desc2spec-any-of"

	// ExtDefs carries locally-scoped sub-schemas outside the newest dialect.
	ExtDefs = "x-desc2spec-defs"

	// ExtUnevaluated carries the unevaluatedProperties policy outside the
	// newest dialect.
	ExtUnevaluated = "x-desc2spec-unevaluated-properties"

	// ExtDiscriminatorMapping carries an explicit discriminator mapping in
	// the dialect whose discriminator is a bare string.
	ExtDiscriminatorMapping = "x-desc2spec-discriminator-mapping"
)

// componentsBucket returns the shared-components bucket name for a node
// kind. The pluralization is irregular per the dialect specification.
func componentsBucket(kind string) string {
	switch kind {
	case "schema":
		return "schemas"
	case "response":
		return "responses"
	case "parameter":
		return "parameters"
	case "requestBody":
		return "requestBodies"
	case "header":
		return "headers"
	case "securityScheme":
		return "securitySchemes"
	}
	return kind + "s"
}

var titler = cases.Title(language.English)

// operationID derives a stable operation identifier from the method and
// path template, e.g. GET /users/{id} -> getUsersById.
func operationID(method, path string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(method))
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if strings.HasPrefix(segment, "{") {
			sb.WriteString("By")
			sb.WriteString(titleWords(strings.Trim(segment, "{}")))
			continue
		}
		sb.WriteString(titleWords(segment))
	}
	return sb.String()
}

// titleWords title-cases a path segment, treating non-alphanumeric runes
// as word boundaries.
func titleWords(segment string) string {
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(titler.String(strings.ToLower(w)))
	}
	return sb.String()
}

// coerceEnum coerces raw enum values to the declared base kind and
// de-duplicates the result. Values incompatible with the kind are dropped,
// preserving the type as authoritative; unsupported kinds (array, object,
// none) yield nil so the enum key is omitted entirely. Re-running coercion
// on its own output is a no-op.
func coerceEnum(values []any, kind types.Kind) []any {
	if len(values) == 0 || !kind.Scalar() {
		return nil
	}
	var out []any
	for _, v := range values {
		coerced, ok := coerceValue(v, kind)
		if !ok {
			continue
		}
		dup := false
		for _, existing := range out {
			if existing == coerced {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, coerced)
		}
	}
	return out
}

func coerceValue(v any, kind types.Kind) (any, bool) {
	switch kind {
	case types.KindString:
		switch n := v.(type) {
		case string:
			return n, true
		case bool:
			return strconv.FormatBool(n), true
		case int:
			return strconv.Itoa(n), true
		case int64:
			return strconv.FormatInt(n, 10), true
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}

	case types.KindInteger:
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			if n == float64(int(n)) {
				return int(n), true
			}
		case string:
			if parsed, err := strconv.Atoi(n); err == nil {
				return parsed, true
			}
		}

	case types.KindNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				return parsed, true
			}
		}

	case types.KindBoolean:
		switch n := v.(type) {
		case bool:
			return n, true
		case string:
			if parsed, err := strconv.ParseBool(n); err == nil {
				return parsed, true
			}
		}
	}
	return nil, false
}

// defaultResponseDescription maps a status code to its stock description.
func defaultResponseDescription(code string) string {
	switch code {
	case "200":
		return "Successful response"
	case "201":
		return "Created"
	case "204":
		return "No content"
	case "400":
		return "Bad request"
	case "401":
		return "Unauthorized"
	case "403":
		return "Forbidden"
	case "404":
		return "Not found"
	case "422":
		return "Unprocessable entity"
	case "500":
		return "Internal server error"
	}
	return fmt.Sprintf("Response %s", code)
}

// copyOperationExtensions copies extension-prefixed documentation keys
// onto an operation node verbatim.
func copyOperationExtensions(node map[string]any, docs map[string]any) {
	for key, value := range docs {
		if strings.HasPrefix(key, "x-") {
			node[key] = value
		}
	}
}

// pathParamNames extracts the placeholder names of a path template.
func pathParamNames(path string) map[string]bool {
	names := map[string]bool{}
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			names[strings.Trim(segment, "{}")] = true
		}
	}
	return names
}
