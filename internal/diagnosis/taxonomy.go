package diagnosis

// Entry describes one error type for learners.
type Entry struct {
	Type        ErrorType
	Label       string
	Description string
	Suggestion  string
}

// registry is the package-level taxonomy, keyed by error type.
var registry map[ErrorType]*Entry

func init() {
	registry = make(map[ErrorType]*Entry, len(seedEntries))
	for i := range seedEntries {
		e := &seedEntries[i]
		registry[e.Type] = e
	}
}

var unknownEntry = Entry{
	Label:       "Unknown",
	Description: "The answer was wrong.",
	Suggestion:  "Work through the problem again one step at a time.",
}

// Lookup returns the taxonomy entry for t, or nil if t is unknown.
func Lookup(t ErrorType) *Entry {
	return registry[t]
}

func entryOf(t ErrorType) *Entry {
	if e, ok := registry[t]; ok {
		return e
	}
	return &unknownEntry
}

// Label returns a short name for t.
func Label(t ErrorType) string { return entryOf(t).Label }

// Description explains what went wrong. It is total: unknown types get a
// generic text.
func Description(t ErrorType) string { return entryOf(t).Description }

// Suggestion returns practice advice for t. Like Description it is total.
func Suggestion(t ErrorType) string { return entryOf(t).Suggestion }
