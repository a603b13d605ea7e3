package marketplace

import (
	"fmt"
	"strings"
)

// Select options offered by the forms. Free text outside these lists is
// still accepted by the API.
var (
	Cities        = []string{"طرابلس", "بنغازي", "مصراتة", "الزاوية", "صبراتة"}
	ServiceTypes  = []string{"كهربائي", "سباك", "طباخ", "طباخة", "سائق", "مصمم", "بحار"}
	WorkSchedules = []string{"كامل", "جزئي", "مرن"}
)

// RatingLabel formats the author's rating as shown on post cards, e.g. "4.5 (12)".
func (u *User) RatingLabel() string {
	if u == nil {
		return "0.0 (0)"
	}
	return fmt.Sprintf("%.1f (%d)", u.AverageRating, u.TotalRatings)
}

// Initial is the first letter of the username, used as an avatar.
func (u *User) Initial() string {
	if u == nil {
		return ""
	}
	for _, r := range strings.TrimSpace(u.Username) {
		return string(r)
	}
	return ""
}

// AuthorName returns the username of the post's author, if known.
func (p Post) AuthorName() string {
	if p.User == nil {
		return ""
	}
	return p.User.Username
}

// Location joins city and area for display.
func (p Post) Location() string {
	if p.Area == "" {
		return p.City
	}
	return p.City + "، " + p.Area
}

func (p Post) AuthorInitial() string { return p.User.Initial() }

// Rating is the author's rating label; posts without an author show "0.0 (0)".
func (p Post) Rating() string { return p.User.RatingLabel() }
