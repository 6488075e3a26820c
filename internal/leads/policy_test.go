package leads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() Record {
	return Record{
		Name:        "Warung Bu Tini",
		Address:     "Jl. Sudirman No.1, Jakarta Pusat, DKI Jakarta",
		City:        "Jakarta Pusat",
		Phone:       "+62 21 5551234",
		Description: "Masakan rumahan",
		Website:     "https://warungbutini.example",
		Logo:        "https://warungbutini.example/logo.png",
		Email:       "halo@warungbutini.example",
		MapURL:      "https://maps.example/place/abc",
	}
}

func TestValidateStrict(t *testing.T) {
	t.Run("Complete record is accepted", func(t *testing.T) {
		ok, reason := Validate(fullRecord(), PolicyStrict)

		assert.True(t, ok)
		assert.Equal(t, "Valid", reason)
	})

	t.Run("Each missing field is named in the reason", func(t *testing.T) {
		for _, field := range PolicyStrict.RequiredFields() {
			rec := fullRecord()
			rec.set(field, "")

			ok, reason := Validate(rec, PolicyStrict)

			assert.False(t, ok, field)
			assert.Equal(t, "Missing: "+field, reason)
		}
	})

	t.Run("Whitespace-only counts as missing", func(t *testing.T) {
		rec := fullRecord()
		rec.Phone = "   "

		ok, reason := Validate(rec, PolicyStrict)

		assert.False(t, ok)
		assert.Equal(t, "Missing: phone", reason)
	})

	t.Run("Missing fields are listed in declared order", func(t *testing.T) {
		rec := fullRecord()
		rec.Email = ""
		rec.Name = ""
		rec.City = ""

		ok, reason := Validate(rec, PolicyStrict)

		assert.False(t, ok)
		assert.Equal(t, "Missing: name, city, email", reason)
	})
}

func TestValidateModerate(t *testing.T) {
	t.Run("Only name, website and email are required", func(t *testing.T) {
		rec := Record{
			Name:    "Warung Bu Tini",
			Website: "https://warungbutini.example",
			Email:   "halo@warungbutini.example",
		}

		ok, reason := Validate(rec, PolicyModerate)

		assert.True(t, ok)
		assert.Equal(t, "Valid", reason)
	})

	t.Run("Missing email rejects", func(t *testing.T) {
		rec := fullRecord()
		rec.Email = ""

		ok, reason := Validate(rec, PolicyModerate)

		assert.False(t, ok)
		assert.Equal(t, "Missing: email", reason)
	})
}

func TestValidateLenient(t *testing.T) {
	rec := Record{Name: "Warung Bu Tini", Phone: "+62 21 5551234"}

	ok, reason := Validate(rec, PolicyLenient)

	assert.True(t, ok)
	assert.Equal(t, "Valid", reason)

	rec.Phone = ""

	ok, reason = Validate(rec, PolicyLenient)

	assert.False(t, ok)
	assert.Equal(t, "Missing: phone", reason)
}

func TestValidateNone(t *testing.T) {
	ok, reason := Validate(Record{}, PolicyNone)

	assert.True(t, ok)
	assert.Equal(t, "No validation required", reason)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Policy
		known    bool
	}{
		{name: "Strict", input: "STRICT", expected: PolicyStrict, known: true},
		{name: "Lowercase moderate", input: "moderate", expected: PolicyModerate, known: true},
		{name: "Mixed case lenient", input: "Lenient", expected: PolicyLenient, known: true},
		{name: "None with padding", input: "  none ", expected: PolicyNone, known: true},
		{name: "Unknown falls back to moderate", input: "paranoid", expected: PolicyModerate, known: false},
		{name: "Empty falls back to moderate", input: "", expected: PolicyModerate, known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, ok := ParsePolicy(tt.input)

			assert.Equal(t, tt.expected, policy)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "STRICT", PolicyStrict.String())
	assert.Equal(t, "MODERATE", PolicyModerate.String())
	assert.Equal(t, "LENIENT", PolicyLenient.String())
	assert.Equal(t, "NONE", PolicyNone.String())
}

func TestProcess(t *testing.T) {
	t.Run("Truncation happens before validation", func(t *testing.T) {
		rec := fullRecord()
		rec.Description = strings.Repeat("d", 600)

		out, ok, reason := Process(rec, PolicyStrict)

		require.True(t, ok)
		assert.Equal(t, "Valid", reason)
		assert.Equal(t, 512, len([]rune(out.Description)))
	})

	t.Run("Rejected record still returns the truncated copy", func(t *testing.T) {
		rec := fullRecord()
		rec.Email = ""

		_, ok, reason := Process(rec, PolicyModerate)

		assert.False(t, ok)
		assert.Equal(t, "Missing: email", reason)
	})
}
