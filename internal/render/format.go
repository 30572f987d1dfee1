package render

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// es-CO medium date plus short time: day unpadded, month padded, 12-hour clock.
const timestampLayout = "2/01/2006, 3:04"

// Formatter renders timestamps the way the es-CO locale does for a
// medium date plus short time, e.g. "27/10/2023, 10:30 a. m.".
type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

func (f Formatter) Location() *time.Location { return f.loc }

func (f Formatter) Timestamp(t time.Time) string {
	t = t.In(f.loc)

	meridiem := "a. m."
	if t.Hour() >= 12 {
		meridiem = "p. m."
	}

	return t.Format(timestampLayout) + " " + meridiem
}

// Capitalize upper-cases only the first letter, leaving the rest untouched.
func (f Formatter) Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Spanish).String(string(r)) + s[size:]
}
