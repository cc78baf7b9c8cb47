package legacy

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// The portal home page renders the student's display name inside a
// .student-name span as "LASTNAME, FIRSTNAME [MIDDLE]".
var studentNameRe = regexp.MustCompile(`(?is)<span[^>]*class="[^"]*student-name[^"]*"[^>]*>\s*(.+?)\s*</span>`)

// ExtractStudentName scrapes the display name from the legacy home page.
// A last name is required; everything downstream matches on it.
func ExtractStudentName(homeHTML string) (*StudentName, error) {
	m := studentNameRe.FindStringSubmatch(homeHTML)
	if m == nil {
		return nil, &ParseError{Op: "student name", Err: fmt.Errorf("student-name span not found")}
	}

	raw := strings.TrimSpace(html.UnescapeString(m[1]))
	last, first, found := strings.Cut(raw, ",")
	if !found {
		// Some portal skins render "FIRSTNAME LASTNAME" without the comma.
		fields := strings.Fields(raw)
		if len(fields) < 2 {
			return nil, &ParseError{Op: "student name", Err: fmt.Errorf("unparseable display name %q", raw)}
		}
		return &StudentName{
			FirstName: strings.Join(fields[:len(fields)-1], " "),
			LastName:  fields[len(fields)-1],
		}, nil
	}

	name := &StudentName{
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
	}
	if name.LastName == "" {
		return nil, &ParseError{Op: "student name", Err: fmt.Errorf("empty last name in %q", raw)}
	}
	return name, nil
}
