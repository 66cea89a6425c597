package attributes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"ID", "Age", "Sex", "Zip", "Visit"},
		[][]string{
			{"P1", "10", "F", "02139", "2020-01-01"},
			{"P2", "25", "M", "02139", "2020-06-15"},
			{"P3", "60", "other", "10001", "2021-01-01"},
			{"P4", "", "F", "10001", "2020-03-03"},
		},
	)
	require.NoError(t, err)
	return table
}

func TestNewTable_InfersKinds(t *testing.T) {
	table := sampleTable(t)

	assert.Equal(t, "ID", table.Key)
	assert.Equal(t, []string{"Age", "Sex", "Zip", "Visit"}, table.Categories.Names())
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, table.IDs())

	age, ok := table.Categories.Get("Age")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, age.Kind)
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, age.Boundaries)
	assert.Equal(t, []string{
		"10.00 - 20.00", "20.00 - 30.00", "30.00 - 40.00", "40.00 - 50.00", "50.00 - 60.00",
	}, age.RangeLabels())

	sex, _ := table.Categories.Get("Sex")
	assert.Equal(t, KindCategorical, sex.Kind)
	assert.Equal(t, []string{"F", "M", "other"}, sex.Domain)

	zip, _ := table.Categories.Get("Zip")
	assert.Equal(t, KindNumeric, zip.Kind, "zip codes look numeric until marked")

	visit, _ := table.Categories.Get("Visit")
	assert.Equal(t, KindCategorical, visit.Kind)

	rec, ok := table.Lookup("P4")
	require.True(t, ok)
	assert.Equal(t, "", rec.Get("Age"))
	assert.Equal(t, "F", rec.Get("Sex"))
}

func TestNewTable_ColumnLimits(t *testing.T) {
	_, err := NewTable([]string{"ID"}, nil)
	assert.ErrorIs(t, err, ErrTooManyCategories)

	wide := make([]string, MaxColumns+1)
	for i := range wide {
		wide[i] = fmt.Sprintf("c%d", i)
	}
	_, err = NewTable(wide, nil)
	assert.ErrorIs(t, err, ErrTooManyCategories)

	_, err = NewTable(wide[:MaxColumns], nil)
	assert.NoError(t, err)
}

func TestNewTable_ConstantNumericIsCategorical(t *testing.T) {
	table, err := NewTable([]string{"ID", "Dose"}, [][]string{{"a", "5"}, {"b", "5"}})
	require.NoError(t, err)
	dose, _ := table.Categories.Get("Dose")
	assert.Equal(t, KindCategorical, dose.Kind)
	assert.Equal(t, []string{"5"}, dose.Domain)
}

func TestDomain_OtherLast(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "Other"}, domainOf([]string{"Other", "b", "a", "b"}))
}

func TestSetKind_Date(t *testing.T) {
	table := sampleTable(t)
	require.NoError(t, table.Categories.SetKind("Visit", KindDate))

	visit, _ := table.Categories.Get("Visit")
	assert.Equal(t, KindDate, visit.Kind)
	require.Len(t, visit.Boundaries, DefaultIntervals+1)
	labels := visit.RangeLabels()
	assert.Equal(t, "2020-01-01", labels[0][:10])
	assert.Equal(t, "2021-01-01", labels[len(labels)-1][13:])

	v, ok := visit.Value("2020-06-15")
	require.True(t, ok)
	lo, hi, err := visit.ParseRange("2020-06-01 - 2020-06-30")
	require.NoError(t, err)
	assert.True(t, lo <= v && v <= hi)

	err = table.Categories.SetKind("Sex", KindDate)
	assert.ErrorIs(t, err, ErrKindMismatch)
	sex, _ := table.Categories.Get("Sex")
	assert.Equal(t, KindCategorical, sex.Kind, "failed SetKind leaves the category unchanged")

	assert.ErrorIs(t, table.Categories.SetKind("Nope", KindDate), ErrUnknownCategory)
}

func TestMarkZip(t *testing.T) {
	table := sampleTable(t)
	_, ok := table.Categories.Zip()
	assert.False(t, ok)

	require.NoError(t, table.Categories.MarkZip("Zip"))
	zip, ok := table.Categories.Zip()
	require.True(t, ok)
	assert.Equal(t, "Zip", zip.Name)
	assert.Equal(t, KindCategorical, zip.Kind)
	assert.Equal(t, []string{"02139", "10001"}, zip.Domain)

	require.NoError(t, table.Categories.MarkZip("Sex"))
	zip, _ = table.Categories.Zip()
	assert.Equal(t, "Sex", zip.Name)

	assert.ErrorIs(t, table.Categories.SetKind("Sex", KindNumeric), ErrKindMismatch)
}

func TestIntervalEditing(t *testing.T) {
	table := sampleTable(t)
	age, _ := table.Categories.Get("Age")

	require.NoError(t, age.InsertBoundary(0))
	assert.Equal(t, []float64{10, 15, 20, 30, 40, 50, 60}, age.Boundaries)

	require.NoError(t, age.DeleteBoundary(1))
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, age.Boundaries)

	assert.ErrorIs(t, age.DeleteBoundary(0), ErrInvalidInterval)
	assert.ErrorIs(t, age.DeleteBoundary(5), ErrInvalidInterval)
	assert.ErrorIs(t, age.InsertBoundary(5), ErrInvalidInterval)
	assert.ErrorIs(t, age.SetBoundary(6, 1), ErrInvalidInterval)

	err := age.SetBoundary(2, 45)
	assert.ErrorIs(t, err, ErrCategoryInvalid)
	assert.True(t, age.Invalid())
	assert.NotEmpty(t, age.Reason())
	assert.Len(t, table.Categories.Invalid(), 1)

	require.NoError(t, age.SetBoundary(2, 35))
	assert.False(t, age.Invalid())
	assert.NoError(t, age.Err())
	assert.Equal(t, "20.00 - 35.00", age.RangeLabels()[1])

	sex, _ := table.Categories.Get("Sex")
	assert.ErrorIs(t, sex.InsertBoundary(0), ErrKindMismatch)
}

func TestParseRange(t *testing.T) {
	age := &Category{Name: "Age", Kind: KindNumeric}
	tests := []struct {
		in      string
		lo, hi  float64
		wantErr bool
	}{
		{"20 - 30", 20, 30, false},
		{"-5.50 - 3", -5.5, 3, false},
		{"30 - 20", 0, 0, true},
		{"20-30", 0, 0, true},
		{"a - 3", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lo, hi, err := age.ParseRange(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInterval))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"Date": KindDate, "numeric": KindNumeric, "categorical": KindCategorical} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, k)
	}
	_, err := ParseKind("colour")
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestApplyKinds(t *testing.T) {
	table := sampleTable(t)
	require.NoError(t, table.ApplyKinds(map[string]Kind{"Visit": KindDate, "Zip": KindCategorical}))
	visit, _ := table.Categories.Get("Visit")
	assert.Equal(t, KindDate, visit.Kind)
	zip, _ := table.Categories.Get("Zip")
	assert.Equal(t, KindCategorical, zip.Kind)
}

func TestNewTable_NonFiniteValuesStayCategorical(t *testing.T) {
	for _, bad := range []string{"NaN", "Inf", "-infinity"} {
		t.Run(bad, func(t *testing.T) {
			table, err := NewTable([]string{"ID", "Age"}, [][]string{{"P1", "10"}, {"P2", bad}, {"P3", "60"}})
			require.NoError(t, err)
			age, _ := table.Categories.Get("Age")
			assert.Equal(t, KindCategorical, age.Kind)
			assert.Empty(t, age.Boundaries)
			assert.Contains(t, age.Domain, bad)

			err = table.Categories.SetKind("Age", KindNumeric)
			assert.ErrorIs(t, err, ErrKindMismatch)
			assert.Equal(t, KindCategorical, age.Kind, "failed reinterpretation leaves the category unchanged")
		})
	}
}

func TestNewTable_OverflowingSpreadStaysCategorical(t *testing.T) {
	table, err := NewTable([]string{"ID", "X"}, [][]string{{"P1", "-1e308"}, {"P2", "1e308"}})
	require.NoError(t, err)
	x, _ := table.Categories.Get("X")
	assert.Equal(t, KindCategorical, x.Kind)
	assert.False(t, x.Invalid())
}

func TestNumericValueRejectsNonFinite(t *testing.T) {
	age := &Category{Name: "Age", Kind: KindNumeric, Boundaries: []float64{0, 10}}
	for _, raw := range []string{"NaN", "+Inf", "inf"} {
		_, ok := age.Value(raw)
		assert.False(t, ok, raw)
	}
	_, _, err := age.ParseRange("NaN - NaN")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestNewTable_RepeatedIDDropsEarlierValues(t *testing.T) {
	table, err := NewTable([]string{"ID", "Age", "Sex"}, [][]string{
		{"P1", "100", "X"},
		{"P2", "10", "F"},
		{"P3", "20", "M"},
		{"P1", "30", "F"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	age, _ := table.Categories.Get("Age")
	require.Equal(t, KindNumeric, age.Kind)
	assert.Equal(t, 10.0, age.Boundaries[0])
	assert.Equal(t, 30.0, age.Boundaries[len(age.Boundaries)-1])

	sex, _ := table.Categories.Get("Sex")
	assert.Equal(t, []string{"F", "M"}, sex.Domain)
}
