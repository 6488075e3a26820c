package leads

import "strings"

// Policy is a closed set of validation modes. Keeping it a tagged type (and
// not an open string->fields map) makes an accidental fifth mode a compile
// error instead of a silent no-op.
type Policy int

const (
	// PolicyStrict requires all nine fields.
	PolicyStrict Policy = iota
	// PolicyModerate requires name, website and email.
	PolicyModerate
	// PolicyLenient requires name and phone.
	PolicyLenient
	// PolicyNone accepts everything.
	PolicyNone
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "STRICT"
	case PolicyModerate:
		return "MODERATE"
	case PolicyLenient:
		return "LENIENT"
	case PolicyNone:
		return "NONE"
	}

	return "UNKNOWN"
}

// RequiredFields returns the policy's required field names in declared
// order. The order is part of the contract: rejection reasons list missing
// fields in this order.
func (p Policy) RequiredFields() []string {
	switch p {
	case PolicyStrict:
		return []string{
			FieldName,
			FieldAddress,
			FieldCity,
			FieldPhone,
			FieldDescription,
			FieldWebsite,
			FieldLogo,
			FieldEmail,
			FieldMapURL,
		}
	case PolicyModerate:
		return []string{FieldName, FieldWebsite, FieldEmail}
	case PolicyLenient:
		return []string{FieldName, FieldPhone}
	case PolicyNone:
		return nil
	}

	return nil
}

// ParsePolicy maps a mode identifier to a Policy. Unrecognized identifiers
// fail closed to PolicyModerate; ok reports whether the input was one of the
// four known modes so the caller can log the correction.
func ParsePolicy(s string) (policy Policy, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STRICT":
		return PolicyStrict, true
	case "MODERATE":
		return PolicyModerate, true
	case "LENIENT":
		return PolicyLenient, true
	case "NONE":
		return PolicyNone, true
	}

	return PolicyModerate, false
}

// Validate checks the record against the policy's required fields and
// returns the accept decision with a human-readable reason: "Valid",
// "No validation required", or "Missing: <fields>".
func Validate(r Record, p Policy) (bool, string) {
	required := p.RequiredFields()
	if len(required) == 0 {
		return true, "No validation required"
	}

	var missing []string

	for _, field := range required {
		if strings.TrimSpace(r.Get(field)) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return false, "Missing: " + strings.Join(missing, ", ")
	}

	return true, "Valid"
}
