package chat

import (
	"fmt"
	"strings"
)

// Display is the name/picture shown for a conversation without explicit metadata.
type Display struct {
	Name           string
	ProfilePicture string
	LastActive     int64
}

// DeriveDisplay computes the display of a conversation from the other participants, in order.
// A single retained participant gives their full name, even when others were cut.
// Otherwise up to n first names are joined and "+k more" is appended for the rest. Pictures of the retained participants are joined
// with a comma and LastActive is the maximum over all others. The result depends only on its input.
func DeriveDisplay(others []Contact, n int) Display {
	if n < 1 {
		n = 1
	}
	retained := others
	if len(retained) > n {
		retained = retained[:n]
	}

	var d Display
	for _, c := range others {
		if c.LastActive > d.LastActive {
			d.LastActive = c.LastActive
		}
	}

	pictures := make([]string, len(retained))
	for i, c := range retained {
		pictures[i] = c.ProfilePicture
	}
	d.ProfilePicture = strings.Join(pictures, ",")

	switch len(retained) {
	case 0:
	case 1:
		d.Name = retained[0].FullName
	default:
		names := make([]string, len(retained))
		for i, c := range retained {
			names[i] = c.FirstName
		}
		d.Name = strings.Join(names, ", ")
		if extra := len(others) - len(retained); extra > 0 {
			d.Name = fmt.Sprintf("%s +%d more", d.Name, extra)
		}
	}
	return d
}
