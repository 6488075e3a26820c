package gmaps

// BaseURL is the map-search entry point.
const BaseURL = "https://www.google.com/maps"

// Selectors for the search page, the results feed and the business detail
// pane. Label-based selectors carry both the English and Indonesian UI
// variants.
const (
	selSearchBox   = "#searchboxinput"
	selFeed        = "div[role='feed']"
	selResultLinks = "div[role='feed'] a.hfpxzc"
	selEndOfList   = "span:has-text('You have reached the end of the list'), " +
		"span:has-text('Anda telah mencapai akhir daftar')"

	selName     = "h1"
	selAddress  = "button[aria-label*='Address'], button[aria-label*='Alamat']"
	selPhone    = "button[aria-label*='Phone'], button[aria-label*='Telepon']"
	selCategory = "button[jsaction*='pane.rating.category']"
	selWebsite  = "a[aria-label*='Website'], a[data-item-id*='authority']"
	selLogo     = "button[jsaction*='hero'] img"
)
