package capture

// DefaultPageCapacity is the number of events per page.
//
// Larger pages mean fewer allocations on the hot path; smaller pages mean
// a smaller footprint for goroutines that record few events.
const DefaultPageCapacity = 16384

// Page is a fixed-capacity block of events.
//
// The backing array is allocated once, at full capacity, when the page is
// created. count never exceeds len(events); once it reaches it the page is
// sealed.
type Page struct {
	events []Event
	count  int
}

func newPage(capacity int) *Page {
	return &Page{events: make([]Event, capacity)}
}

// Len returns the number of events written to the page.
func (p *Page) Len() int { return p.count }

// Cap returns the page capacity.
func (p *Page) Cap() int { return len(p.events) }

// Full reports whether the page is sealed.
func (p *Page) Full() bool { return p.count == len(p.events) }

// Events returns the written events in append order.
// The returned slice aliases the page and must not be modified.
func (p *Page) Events() []Event { return p.events[:p.count] }
