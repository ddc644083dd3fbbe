package domain

// Directory maps country codes to their resolved entries while remembering
// insertion order. The resolver is the only writer; once resolution finishes
// the directory is read-only.
type Directory struct {
	order   []string
	entries map[string]*CountryEntry
}

func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]*CountryEntry)}
}

// Add inserts an entry under its country code. Re-adding a code replaces the
// entry without duplicating its position in the iteration order.
func (d *Directory) Add(entry *CountryEntry) {
	if entry == nil || entry.Code == "" {
		return
	}
	if _, exists := d.entries[entry.Code]; !exists {
		d.order = append(d.order, entry.Code)
	}
	d.entries[entry.Code] = entry
}

// Get returns the entry for the given country code, or nil.
func (d *Directory) Get(code string) *CountryEntry {
	return d.entries[code]
}

// Codes returns the country codes in insertion order.
func (d *Directory) Codes() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Directory) Len() int {
	return len(d.order)
}
