/*
query_test.go - Tests for search and filter predicates

Tests for:
- Free-text search across the searchable fields
- Each criterion kind (text, enumerated, numeric, date)
- Conjunction of search and criteria
*/
package directory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/directory"
)

func ids(records []directory.Employee) []int {
	out := make([]int, len(records))
	for i, e := range records {
		out[i] = e.ID
	}
	return out
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func floatPtr(v float64) *float64 { return &v }

func TestFilter_ZeroCriteriaReturnsEverything(t *testing.T) {
	// GIVEN: The sample collection
	records := directory.SampleEmployees()

	// WHEN: Filtering with no search and no criteria
	got := directory.Filter(records, "", directory.Criteria{})

	// THEN: Every record comes back in original order
	assert.Equal(t, ids(records), ids(got))
	assert.Equal(t, 0, directory.Criteria{}.Active())
}

func TestFilter_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	records := directory.SampleEmployees()

	cases := []struct {
		term string
		want []int
	}{
		{"PETROV", []int{18}},          // last name
		{"kevin.chen@", []int{13}},     // email
		{"cloud architect", []int{19}}, // role
		{"quality", []int{16}},         // department and skill
		{"london", nil},                // location with no match
		{"thomas anderson", []int{16}}, // manager
		{"kubernetes", []int{7}},       // skill
		{"sarah", []int{1, 6, 7, 11, 12, 13, 14, 15, 17, 18, 19, 20}}, // first name + manager
	}
	for _, tc := range cases {
		got := directory.Filter(records, tc.term, directory.Criteria{})
		if tc.want == nil {
			assert.Empty(t, got, "term %q", tc.term)
			continue
		}
		assert.Equal(t, tc.want, ids(got), "term %q", tc.term)
	}
}

func TestFilter_SearchDoesNotMatchPhoneOrSalary(t *testing.T) {
	records := directory.SampleEmployees()

	assert.Empty(t, directory.Filter(records, "555-0101", directory.Criteria{}))
	assert.Empty(t, directory.Filter(records, "95000", directory.Criteria{}))
}

func TestFilter_DepartmentAndPerformance(t *testing.T) {
	// GIVEN: The sample collection
	records := directory.SampleEmployees()

	// WHEN: Filtering IT with performance >= 4.5
	got := directory.Filter(records, "", directory.Criteria{
		Department:     "Information Technology",
		PerformanceMin: floatPtr(4.5),
	})

	// THEN: Exactly the matching records, in original relative order
	assert.Equal(t, []int{1, 12, 13, 17, 19}, ids(got))
}

func TestFilter_EnumeratedFieldsUseExactMatch(t *testing.T) {
	records := directory.SampleEmployees()

	got := directory.Filter(records, "", directory.Criteria{Department: "Information"})
	assert.Empty(t, got, "department is not a substring filter")

	got = directory.Filter(records, "", directory.Criteria{Status: "On Leave"})
	assert.Equal(t, []int{8}, ids(got))

	got = directory.Filter(records, "", directory.Criteria{Location: "Remote"})
	assert.Equal(t, []int{7, 12, 16}, ids(got))
}

func TestFilter_TextCriteriaUseContains(t *testing.T) {
	records := directory.SampleEmployees()

	got := directory.Filter(records, "", directory.Criteria{Role: "developer"})
	assert.Equal(t, []int{1, 11, 12, 20}, ids(got))

	got = directory.Filter(records, "", directory.Criteria{FirstName: "ma", LastName: "GAR"})
	assert.Equal(t, []int{12}, ids(got))

	got = directory.Filter(records, "", directory.Criteria{Skills: "python"})
	assert.Equal(t, []int{12, 13}, ids(got))

	got = directory.Filter(records, "", directory.Criteria{Manager: "smith"})
	assert.Equal(t, []int{8}, ids(got))
}

func TestFilter_SalaryBoundsAreInclusive(t *testing.T) {
	records := directory.SampleEmployees()

	got := directory.Filter(records, "", directory.Criteria{
		SalaryMin: decPtr(95000),
		SalaryMax: decPtr(105000),
	})

	assert.Equal(t, []int{1, 13}, ids(got))
}

func TestFilter_HireDateRange(t *testing.T) {
	records := directory.SampleEmployees()

	got := directory.Filter(records, "", directory.Criteria{
		HireDateFrom: "2022-01-01",
	})
	assert.Equal(t, []int{4, 14}, ids(got))

	got = directory.Filter(records, "", directory.Criteria{
		HireDateFrom: "2019-01-20",
		HireDateTo:   "2019-04-03",
	})
	assert.Equal(t, []int{2, 17}, ids(got), "both bounds inclusive")
}

func TestFilter_ConjunctionLaw(t *testing.T) {
	// GIVEN: A mix of search and criteria
	records := directory.SampleEmployees()
	c := directory.Criteria{
		Department: "Information Technology",
		SalaryMin:  decPtr(80000),
		Manager:    "chen",
	}
	search := "a"

	// WHEN: Filtering
	got := directory.Filter(records, search, c)

	// THEN: Result is a subset and each record passes every predicate
	require.NotEmpty(t, got)
	all := map[int]bool{}
	for _, e := range records {
		all[e.ID] = true
	}
	for _, e := range got {
		assert.True(t, all[e.ID])
		assert.True(t, c.Matches(e))
		assert.True(t, directory.MatchesSearch(e, search))
	}
	// And nothing that passes was dropped
	for _, e := range records {
		if c.Matches(e) && directory.MatchesSearch(e, search) {
			assert.Contains(t, ids(got), e.ID)
		}
	}
}

func TestCriteria_Active(t *testing.T) {
	c := directory.Criteria{
		FirstName:      "a",
		Status:         "Active",
		SalaryMax:      decPtr(1),
		PerformanceMin: floatPtr(3),
	}
	assert.Equal(t, 4, c.Active())
	assert.False(t, c.IsZero())
}
