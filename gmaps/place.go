package gmaps

import (
	"context"
	"strings"

	"github.com/kremlit/leadharvest/internal/leads"
)

// ScrapePlace loads one business detail page and reads the raw fields into a
// record. City and phone are normalized here; truncation and validation
// happen later in the pipeline. Element absence is not an error: missing
// fields stay empty and the validator decides what that means.
func ScrapePlace(ctx context.Context, driver PageDriver, url string) (leads.Record, error) {
	rec := leads.NewRecord(url)

	if err := driver.Navigate(url); err != nil {
		return rec, err
	}

	if err := sleep(ctx, detailPageDelay); err != nil {
		return rec, err
	}

	rec.Name = driver.Text(selName)
	rec.Address = labelValue(driver.Attr(selAddress, "aria-label"))
	rec.City = leads.ExtractCity(rec.Address)
	rec.Phone = leads.FormatPhone(labelValue(driver.Attr(selPhone, "aria-label")))
	rec.Description = driver.Text(selCategory)
	rec.Website = driver.Attr(selWebsite, "href")
	rec.Logo = driver.Attr(selLogo, "src")

	return rec, nil
}

// labelValue extracts the value part of an "Address: Jl. Sudirman ..."
// aria-label. Labels without a colon carry no value.
func labelValue(label string) string {
	_, value, ok := strings.Cut(label, ":")
	if !ok {
		return ""
	}

	return strings.TrimSpace(value)
}
