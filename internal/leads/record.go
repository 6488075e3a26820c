package leads

// Field names double as CSV header columns. Order here is the column order
// of every sink.
const (
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldPhone       = "phone"
	FieldDescription = "description"
	FieldWebsite     = "websiteUrl"
	FieldLogo        = "logoUrl"
	FieldEmail       = "email"
	FieldMapURL      = "mapUrl"
)

// FieldNames is the canonical field order for headers and rows.
var FieldNames = []string{
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

// maxFieldLen caps each field before persistence. Values above the cap are
// truncated to cap-3 runes plus an ellipsis marker.
var maxFieldLen = map[string]int{
	FieldName:        256,
	FieldAddress:     512,
	FieldCity:        100,
	FieldPhone:       50,
	FieldDescription: 512,
	FieldWebsite:     256,
	FieldLogo:        256,
	FieldEmail:       256,
	FieldMapURL:      512,
}

// Record is one scraped business. Every field defaults to the empty string;
// MapURL is always set (it is the input key), City is derived from Address,
// and Email is only ever populated when Website is non-empty.
type Record struct {
	Name        string
	Address     string
	City        string
	Phone       string
	Description string
	Website     string
	Logo        string
	Email       string
	MapURL      string
}

// NewRecord returns an empty record keyed by its detail-page URL.
func NewRecord(mapURL string) Record {
	return Record{MapURL: mapURL}
}

// Get returns the value of the named field, or "" for unknown names.
func (r Record) Get(field string) string {
	switch field {
	case FieldName:
		return r.Name
	case FieldAddress:
		return r.Address
	case FieldCity:
		return r.City
	case FieldPhone:
		return r.Phone
	case FieldDescription:
		return r.Description
	case FieldWebsite:
		return r.Website
	case FieldLogo:
		return r.Logo
	case FieldEmail:
		return r.Email
	case FieldMapURL:
		return r.MapURL
	}

	return ""
}

func (r *Record) set(field, value string) {
	switch field {
	case FieldName:
		r.Name = value
	case FieldAddress:
		r.Address = value
	case FieldCity:
		r.City = value
	case FieldPhone:
		r.Phone = value
	case FieldDescription:
		r.Description = value
	case FieldWebsite:
		r.Website = value
	case FieldLogo:
		r.Logo = value
	case FieldEmail:
		r.Email = value
	case FieldMapURL:
		r.MapURL = value
	}
}

// Values returns the field values in FieldNames order, ready for a row sink.
func (r Record) Values() []string {
	values := make([]string, 0, len(FieldNames))
	for _, field := range FieldNames {
		values = append(values, r.Get(field))
	}

	return values
}
