package extract

// Value is an optional extracted string. The zero Value is absent, so a
// field that was not found is never confused with one found empty.
type Value struct {
	s  string
	ok bool
}

// Some returns a present Value holding s
func Some(s string) Value {
	return Value{s: s, ok: true}
}

// Absent returns the absent Value
func Absent() Value {
	return Value{}
}

// Get returns the string and whether it is present
func (v Value) Get() (string, bool) {
	return v.s, v.ok
}

// IsPresent reports whether the value was found
func (v Value) IsPresent() bool {
	return v.ok
}

// String returns the value, or "" when absent
func (v Value) String() string {
	return v.s
}
