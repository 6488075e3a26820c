package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kremlit/leadharvest/internal/leads"
)

func sampleRecord(name string) leads.Record {
	return leads.Record{
		Name:    name,
		Address: "Jl. Sudirman No.1, Jakarta Pusat, DKI Jakarta",
		City:    "Jakarta Pusat",
		Phone:   "+62 21 5551234",
		Website: "https://example.test",
		Email:   "halo@example.test",
		MapURL:  "https://maps.example/place/" + name,
	}
}

func TestCSVSinkWritesBOMAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := NewCSVSink(path, 1)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	require.True(t, len(raw) >= 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])

	reader := csv.NewReader(strings.NewReader(string(raw[3:])))
	header, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, leads.FieldNames, header)
}

func TestCSVSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := NewCSVSink(path, 1)
	require.NoError(t, err)

	rec := sampleRecord("Warung Bu Tini")
	rec.Description = "Masakan rumahan, murah"

	require.NoError(t, sink.Write(rec))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(raw[3:])))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rec.Values(), rows[1])
}

func TestCSVSinkFlushInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := NewCSVSink(path, 3)
	require.NoError(t, err)
	defer sink.Close()

	countRows := func() int {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		reader := csv.NewReader(strings.NewReader(string(raw[3:])))
		rows, err := reader.ReadAll()
		require.NoError(t, err)

		return len(rows)
	}

	require.NoError(t, sink.Write(sampleRecord("a")))
	require.NoError(t, sink.Write(sampleRecord("b")))
	assert.Equal(t, 1, countRows(), "buffered rows stay unflushed below the interval")

	require.NoError(t, sink.Write(sampleRecord("c")))
	assert.Equal(t, 4, countRows(), "interval reached, header plus three rows on disk")
}

func TestCSVSinkExplicitFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := NewCSVSink(path, 100)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write(sampleRecord("a")))
	require.NoError(t, sink.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "https://maps.example/place/a")
}

func TestCSVSinkUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := NewCSVSink(path, 1)
	require.NoError(t, err)

	rec := sampleRecord("Café Baçio 渋谷")
	require.NoError(t, sink.Write(rec))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Café Baçio 渋谷")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    string
		ext      string
		expected string
	}{
		{
			name:     "Plain query",
			query:    "Travel Agent Jakarta",
			ext:      "csv",
			expected: "travel_agent_jakarta_20260830_143000.csv",
		},
		{
			name:     "Punctuation stripped",
			query:    "Hotel di Bali!!",
			ext:      "xlsx",
			expected: "hotel_di_bali_20260830_143000.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filename(tt.query, now, tt.ext))
		})
	}
}
