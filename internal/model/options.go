package model

import "slices"

// Option is a selectable value with its display label
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Genders are the accepted gender choices
var Genders = []Option{
	{Value: "male", Label: "Male"},
	{Value: "female", Label: "Female"},
	{Value: "prefer not to say", Label: "Prefer not to say"},
}

// Branches are the accepted engineering branches
var Branches = labelled(
	"Chemical Engineering",
	"Civil Engineering",
	"Computer Science and Engineering",
	"CS AI/ML",
	"Electrical Engineering",
	"Electrical and Electronics Engineering",
	"Electronics and Telecommunication Engineering",
	"Information Technology",
	"Mechanical Engineering",
	"Metallurgy and Materials Engineering",
	"Production Engineering",
)

// Sections are the accepted class sections
var Sections = labelled("A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N")

// Domains are the interest areas a student can pick as primary or secondary
var Domains = labelled(
	"Web Dev",
	"App Dev",
	"Game Dev",
	"AI/ML",
	"Cyber Security",
	"Cloud Computing",
	"UI/UX",
	"Blender",
)

func labelled(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v}
	}
	return opts
}

// HasOption reports whether value is one of opts
func HasOption(opts []Option, value string) bool {
	return slices.ContainsFunc(opts, func(o Option) bool { return o.Value == value })
}

// SecondaryDomainOptions returns the domains still selectable as secondary
// once primary has been chosen
func SecondaryDomainOptions(primary string) []Option {
	if primary == "" {
		return slices.Clone(Domains)
	}
	return slices.DeleteFunc(slices.Clone(Domains), func(o Option) bool {
		return o.Value == primary
	})
}
