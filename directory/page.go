package directory

import "fmt"

// Page is one slice of the filtered, sorted sequence.
type Page struct {
	Items      []Employee
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// Paginate cuts the page'th chunk of size records out of records.
// Pages outside [1, TotalPages] come back empty; size <= 0 falls back to
// DefaultPageSize.
func Paginate(records []Employee, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page{
		Number:     page,
		Size:       size,
		TotalItems: len(records),
		TotalPages: TotalPages(len(records), size),
		Items:      []Employee{},
	}
	// Checked before multiplying so huge page numbers cannot overflow.
	if page < 1 || page > p.TotalPages || len(records) == 0 {
		return p
	}

	start := (page - 1) * size
	end := start + min(size, len(records)-start)
	p.Items = records[start:end]
	return p
}

// TotalPages is ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n-1)/size + 1
}

// From is the 1-based position of the first item on the page, 0 when empty.
func (p Page) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// To is the 1-based position of the last item on the page, 0 when empty.
func (p Page) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + len(p.Items)
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// IDs returns the ids of the records on the page, in page order.
func (p Page) IDs() []int {
	ids := make([]int, len(p.Items))
	for i, e := range p.Items {
		ids[i] = e.ID
	}
	return ids
}

// Showing renders the range line under the table. A page past the end of
// a non-empty result says so instead of printing a 0 to 0 range.
func (p Page) Showing() string {
	if p.TotalItems == 0 {
		return "No employees found"
	}
	if len(p.Items) == 0 {
		return fmt.Sprintf("Page %d is out of range (%d of %d employees)", p.Number, p.TotalPages, p.TotalItems)
	}
	return fmt.Sprintf("Showing %d to %d of %d employees", p.From(), p.To(), p.TotalItems)
}
