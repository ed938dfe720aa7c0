package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Kind Tests
// ============================================

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"products", KindProducts, false},
		{"rental-items", KindRentalItems, false},
		{"articles", KindArticles, false},
		{"services", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestKind_Path(t *testing.T) {
	assert.Equal(t, "/rental-items", KindRentalItems.Path())
}

// ============================================
// Amount Tests
// ============================================

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr error
	}{
		{"integer", `2500000`, 2500000, nil},
		{"integral float", `2500000.0`, 2500000, nil},
		{"zero", `0`, 0, nil},
		{"negative integer", `-5`, -5, nil},
		{"null", `null`, 0, nil},
		{"fractional", `10.5`, 0, ErrFractionalAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAmount_UnmarshalJSON_NotANumber(t *testing.T) {
	var a Amount
	err := json.Unmarshal([]byte(`"abc"`), &a)
	assert.Error(t, err)
}

// ============================================
// Entity Decoding Tests
// ============================================

func TestProduct_UnmarshalJSON_DefaultsInStock(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","name":"Panel","price":1000.0}`), &p)

	require.NoError(t, err)
	assert.True(t, p.InStock)
	assert.Equal(t, Amount(1000), p.Price)
}

func TestProduct_UnmarshalJSON_ExplicitOutOfStock(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"p1","name":"Panel","price":1000,"in_stock":false}`), &p)

	require.NoError(t, err)
	assert.False(t, p.InStock)
}

func TestRentalItem_UnmarshalJSON_DefaultsAvailable(t *testing.T) {
	var r RentalItem
	err := json.Unmarshal([]byte(`{"id":"r1","name":"Genset","daily_rate":250000}`), &r)

	require.NoError(t, err)
	assert.True(t, r.Available)
	assert.Equal(t, Amount(250000), r.DailyRate)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"calendar date", "2024-01-15"},
		{"rfc3339", "2024-01-15T10:30:00Z"},
		{"rfc3339 with offset", "2024-01-15T10:30:00.123456+00:00"},
		{"naive iso timestamp", "2024-01-15T10:30:00.123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-45"} {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}

// ============================================
// Fallback Tests
// ============================================

func assertUniqueKeys[T Entity](t *testing.T, items []T) {
	t.Helper()
	seen := make(map[string]bool)
	for _, item := range items {
		assert.NotEmpty(t, item.Key())
		assert.False(t, seen[item.Key()], "duplicate id %s", item.Key())
		seen[item.Key()] = true
	}
}

func TestFallbackProducts(t *testing.T) {
	products := FallbackProducts()

	require.NotEmpty(t, products)
	assertUniqueKeys(t, products)
	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.GreaterOrEqual(t, int64(p.Price), int64(0))
	}
}

func TestFallbackRentalItems(t *testing.T) {
	items := FallbackRentalItems()

	require.NotEmpty(t, items)
	assertUniqueKeys(t, items)
	for _, r := range items {
		assert.NotEmpty(t, r.Name)
		assert.GreaterOrEqual(t, int64(r.DailyRate), int64(0))
	}
}

func TestFallbackArticles(t *testing.T) {
	articles := FallbackArticles()

	require.NotEmpty(t, articles)
	assertUniqueKeys(t, articles)
	for _, a := range articles {
		assert.NotEmpty(t, a.Title)
		_, err := a.Date()
		assert.NoError(t, err)
	}
}

func TestFallback_ReturnsCopies(t *testing.T) {
	first := FallbackProducts()
	first[0].Name = "changed"

	second := FallbackProducts()
	assert.Equal(t, "Panel Listrik Industrial", second[0].Name)
}

// ============================================
// RentalIndex Tests
// ============================================

func TestRentalIndex_Lookup(t *testing.T) {
	idx := NewRentalIndex(FallbackRentalItems())

	item, ok := idx.RentalItem("2")
	assert.True(t, ok)
	assert.Equal(t, "Welding Machine", item.Name)

	_, ok = idx.RentalItem("missing")
	assert.False(t, ok)
}

func TestRentalIndex_DuplicateIDsFirstWins(t *testing.T) {
	idx := NewRentalIndex([]RentalItem{
		{ID: "x", Name: "first"},
		{ID: "x", Name: "second"},
	})

	item, ok := idx.RentalItem("x")
	assert.True(t, ok)
	assert.Equal(t, "first", item.Name)
	assert.Len(t, idx.Items(), 2)
}

func TestRentalIndex_Nil(t *testing.T) {
	var idx *RentalIndex

	_, ok := idx.RentalItem("1")
	assert.False(t, ok)
	assert.Nil(t, idx.Items())
}
