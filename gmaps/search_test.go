package gmaps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDriver struct {
	hrefs        []string
	endAfter     int
	scrolls      int
	navigated    []string
	filled       map[string]string
	pressedEnter int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{filled: make(map[string]string), endAfter: -1}
}

func (d *fakeDriver) Navigate(url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) Text(string) string { return "" }

func (d *fakeDriver) Attr(string, string) string { return "" }

func (d *fakeDriver) Fill(selector, value string) error {
	d.filled[selector] = value
	return nil
}

func (d *fakeDriver) PressEnter() error {
	d.pressedEnter++
	return nil
}

func (d *fakeDriver) Exists(selector string) bool {
	if selector != selEndOfList {
		return false
	}
	return d.endAfter >= 0 && d.scrolls >= d.endAfter
}

func (d *fakeDriver) ScrollToBottom(string) error {
	d.scrolls++
	return nil
}

func (d *fakeDriver) Hrefs(string) []string { return d.hrefs }

func TestUniqueInOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "Duplicates collapse, order kept",
			input:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "Already unique",
			input:    []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "Empty",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, uniqueInOrder(tt.input))
		})
	}
}

func TestLabelValue(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "Label with value",
			label:    "Address: Jl. Sudirman No.1, Jakarta",
			expected: "Jl. Sudirman No.1, Jakarta",
		},
		{
			name:     "Value keeps later colons",
			label:    "Phone: +62: 21",
			expected: "+62: 21",
		},
		{
			name:     "No colon",
			label:    "Jl. Sudirman No.1",
			expected: "",
		},
		{
			name:     "Empty",
			label:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, labelValue(tt.label))
		})
	}
}

func TestCollectLinksStopsAtEndOfList(t *testing.T) {
	if testing.Short() {
		t.Skip("scroll pauses use real time")
	}

	driver := newFakeDriver()
	driver.endAfter = 1
	driver.hrefs = []string{"https://maps.example/place/a", "https://maps.example/place/a", "https://maps.example/place/b"}

	links, err := CollectLinks(context.Background(), driver, 10, zap.NewNop().Sugar())

	require.NoError(t, err)
	assert.Equal(t, []string{"https://maps.example/place/a", "https://maps.example/place/b"}, links)
	assert.Equal(t, 1, driver.scrolls, "end-of-list marker halts scrolling")
}

func TestCollectLinksNoResults(t *testing.T) {
	if testing.Short() {
		t.Skip("scroll pauses use real time")
	}

	driver := newFakeDriver()
	driver.endAfter = 1

	_, err := CollectLinks(context.Background(), driver, 10, zap.NewNop().Sugar())

	assert.ErrorIs(t, err, ErrNoResults)
}

func TestCollectLinksCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectLinks(ctx, newFakeDriver(), 10, zap.NewNop().Sugar())

	assert.ErrorIs(t, err, context.Canceled)
}
