package model

// MemberType is the age bracket of a household member.
type MemberType string

const (
	MemberAdult   MemberType = "adult"
	MemberChild   MemberType = "child"
	MemberElderly MemberType = "elderly"
)

// Valid reports whether t is a known member type.
func (t MemberType) Valid() bool {
	switch t {
	case MemberAdult, MemberChild, MemberElderly:
		return true
	}
	return false
}

// FamilyMember is a (type, count) pair of a family composition.
//
// @Description Household members of one age bracket
type FamilyMember struct {
	Type  MemberType `json:"type" bson:"type" example:"adult"`
	Count int        `json:"count" bson:"count" example:"2"`
}

// FamilySize sums the member counts. Negative counts contribute nothing.
func FamilySize(members []FamilyMember) int {
	size := 0
	for _, m := range members {
		if m.Count > 0 {
			size += m.Count
		}
	}
	return size
}

// CountOf returns the count of the first entry of the given type.
func CountOf(members []FamilyMember, t MemberType) int {
	for _, m := range members {
		if m.Type == t {
			return m.Count
		}
	}
	return 0
}
