package domain

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Gender is the recorded sex of a member; it decides which parent role they can fill.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the supported genders.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Glyph returns the sex symbol used when a member is rendered.
func (g Gender) Glyph() string {
	switch g {
	case GenderMale:
		return "♂"
	case GenderFemale:
		return "♀"
	default:
		return "?"
	}
}

// Attribute names a derived boolean property answered by Member.Has.
type Attribute string

const (
	HasFather     Attribute = "father"
	HasMother     Attribute = "mother"
	HasSpouse     Attribute = "spouse"
	HasChildren   Attribute = "children"
	HasMaidenName Attribute = "maiden_name"
	// HasParents is true when at least one parent is recorded.
	HasParents Attribute = "parents"
)

// RelationKind selects the relationship established by Member.AddRelative.
type RelationKind string

const (
	RelationFather RelationKind = "father"
	RelationMother RelationKind = "mother"
	RelationSpouse RelationKind = "spouse"
	RelationChild  RelationKind = "child"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationFather, RelationMother, RelationSpouse, RelationChild:
		return true
	}
	return false
}

// Member field names reported in ValidationError.Field.
const (
	FieldFirstName  = "first name"
	FieldLastName   = "last name"
	FieldMaidenName = "maiden name"
	FieldGender     = "gender"
	FieldAddress    = "address"
)

const nameReason = "must be non-empty and contain only letters, spaces or . ' -"

// Member is one person in the family graph. Father, mother and spouse are write-once;
// children are recorded in insertion order without duplicates.
//
// A member is not safe for concurrent mutation.
type Member struct {
	id              string
	firstName       string
	lastName        string
	maidenName      string
	gender          Gender
	address         *Address
	lifeDescription string

	mother   *Member
	father   *Member
	spouse   *Member
	children []*Member
}

// NewMember validates the name fields, gender and address and returns an unlinked member.
func NewMember(firstName, lastName string, gender Gender, address *Address, lifeDescription string) (*Member, error) {
	m := &Member{id: uuid.NewString()}
	if err := m.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := m.SetLastName(lastName); err != nil {
		return nil, err
	}
	if !gender.Valid() {
		return nil, invalidField(FieldGender, string(gender), "must be male or female")
	}
	m.gender = gender
	if err := m.SetAddress(address); err != nil {
		return nil, err
	}
	m.lifeDescription = lifeDescription
	return m, nil
}

// ID returns the member's stable identifier, preserved across save and load.
func (m *Member) ID() string { return m.id }

// FirstName returns the normalized first name.
func (m *Member) FirstName() string { return m.firstName }

// LastName returns the normalized last name.
func (m *Member) LastName() string { return m.lastName }

// MaidenName returns the maiden name, empty when none is recorded.
func (m *Member) MaidenName() string { return m.maidenName }

// Gender returns the member's recorded gender.
func (m *Member) Gender() Gender { return m.gender }

// Address returns the member's address. Members may share one *Address.
func (m *Member) Address() *Address { return m.address }

// LifeDescription returns the free-text biography.
func (m *Member) LifeDescription() string { return m.lifeDescription }

// Mother returns the recorded mother, or nil.
func (m *Member) Mother() *Member { return m.mother }

// Father returns the recorded father, or nil.
func (m *Member) Father() *Member { return m.father }

// Spouse returns the recorded spouse, or nil.
func (m *Member) Spouse() *Member { return m.spouse }

// SetFirstName replaces the first name when it satisfies IsValidPersonName.
func (m *Member) SetFirstName(v string) error {
	if !IsValidPersonName(v) {
		return invalidField(FieldFirstName, v, nameReason)
	}
	m.firstName = NormalizeField(v)
	return nil
}

// SetLastName replaces the last name when it satisfies IsValidPersonName.
func (m *Member) SetLastName(v string) error {
	if !IsValidPersonName(v) {
		return invalidField(FieldLastName, v, nameReason)
	}
	m.lastName = NormalizeField(v)
	return nil
}

// SetMaidenName stores a maiden name for female members. A blank value clears it.
func (m *Member) SetMaidenName(v string) error {
	if NormalizeField(v) == "" {
		m.maidenName = ""
		return nil
	}
	if !IsValidPersonName(v) {
		return invalidField(FieldMaidenName, v, nameReason)
	}
	if m.gender != GenderFemale {
		return invalidField(FieldMaidenName, v, "maiden names are only recorded for female members")
	}
	m.maidenName = NormalizeField(v)
	return nil
}

// SetGender changes the member's gender while no relationship depends on it.
func (m *Member) SetGender(g Gender) error {
	if !g.Valid() {
		return invalidField(FieldGender, string(g), "must be male or female")
	}
	if g == m.gender {
		return nil
	}
	if m.spouse != nil {
		return relationError(RelationSpouse, m, ErrGenderMismatch, "gender is fixed while married")
	}
	if len(m.children) > 0 {
		return relationError(RelationChild, m, ErrGenderMismatch, "gender is fixed while recorded as a parent")
	}
	if g == GenderMale && m.maidenName != "" {
		return invalidField(FieldGender, string(g), "clear the maiden name first")
	}
	m.gender = g
	return nil
}

// SetAddress attaches a; a nil address is rejected.
func (m *Member) SetAddress(a *Address) error {
	if a == nil {
		return invalidField(FieldAddress, "", "address is required")
	}
	m.address = a
	return nil
}

// SetLifeDescription stores the biography as given; it is not validated.
func (m *Member) SetLifeDescription(v string) { m.lifeDescription = v }

// SetMother links mother as this member's mother and lists this member among her children.
func (m *Member) SetMother(mother *Member) error {
	if err := m.checkParent(RelationMother, mother, m.mother, GenderFemale); err != nil {
		return err
	}
	mother.appendChild(m)
	m.mother = mother
	return nil
}

// SetFather links father as this member's father and lists this member among his children.
func (m *Member) SetFather(father *Member) error {
	if err := m.checkParent(RelationFather, father, m.father, GenderMale); err != nil {
		return err
	}
	father.appendChild(m)
	m.father = father
	return nil
}

func (m *Member) checkParent(kind RelationKind, parent, current *Member, want Gender) error {
	switch {
	case parent == nil:
		return relationError(kind, m, ErrInvalidRelative, "no member given")
	case current != nil:
		return relationError(kind, m, ErrRelationAlreadySet, fmt.Sprintf("%s already recorded", kind))
	case parent == m:
		return relationError(kind, m, ErrInvalidRelative, "a member cannot be their own parent")
	case parent.gender != want:
		return relationError(kind, m, ErrGenderMismatch, fmt.Sprintf("%s must be %s", kind, want))
	case parent == m.spouse:
		return relationError(kind, m, ErrInvalidRelative, "a spouse cannot be a parent")
	case m.isAncestorOf(parent):
		return relationError(kind, m, ErrInvalidRelative, "a descendant cannot be a parent")
	}
	return nil
}

// SetSpouse marries m and s. Both sides are linked by the single call.
func (m *Member) SetSpouse(s *Member) error {
	switch {
	case s == nil:
		return relationError(RelationSpouse, m, ErrInvalidRelative, "no member given")
	case m.spouse != nil:
		return relationError(RelationSpouse, m, ErrRelationAlreadySet, "spouse already recorded")
	case s == m:
		return relationError(RelationSpouse, m, ErrInvalidRelative, "a member cannot marry themselves")
	case s.gender == m.gender:
		return relationError(RelationSpouse, m, ErrGenderMismatch, "spouse must be of the opposite gender")
	case s.spouse != nil && s.spouse != m:
		return relationError(RelationSpouse, m, ErrRelationAlreadySet, "the other member is already married")
	case s == m.father || s == m.mother || s.father == m || s.mother == m:
		return relationError(RelationSpouse, m, ErrInvalidRelative, "a parent or child cannot be a spouse")
	}
	m.spouse = s
	if s.spouse == nil {
		s.spouse = m
	}
	return nil
}

// AddChild records c as this member's child, filling c's parent of this member's role
// and, when married, the other parent from the spouse. The member's spouse and
// ancestors are rejected before anything changes. Each link is applied as it
// succeeds; an error from a later step leaves earlier links in place.
func (m *Member) AddChild(c *Member) error {
	if c == nil {
		return relationError(RelationChild, m, ErrInvalidRelative, "no member given")
	}
	if c == m {
		return relationError(RelationChild, m, ErrInvalidRelative, "a member cannot be their own child")
	}
	if c == m.spouse {
		return relationError(RelationChild, m, ErrInvalidRelative, "a spouse cannot be a child")
	}
	if c.isAncestorOf(m) {
		return relationError(RelationChild, m, ErrInvalidRelative, "an ancestor cannot be a child")
	}
	switch m.gender {
	case GenderMale:
		if c.father == nil {
			if err := c.SetFather(m); err != nil {
				return err
			}
		}
		if m.spouse != nil && c.mother == nil {
			if err := c.SetMother(m.spouse); err != nil {
				return err
			}
		}
	case GenderFemale:
		if c.mother == nil {
			if err := c.SetMother(m); err != nil {
				return err
			}
		}
		if m.spouse != nil && c.father == nil {
			if err := c.SetFather(m.spouse); err != nil {
				return err
			}
		}
	}
	m.appendChild(c)
	return nil
}

// AddRelative dispatches to the mutator for kind.
func (m *Member) AddRelative(kind RelationKind, other *Member) error {
	switch kind {
	case RelationFather:
		return m.SetFather(other)
	case RelationMother:
		return m.SetMother(other)
	case RelationSpouse:
		return m.SetSpouse(other)
	case RelationChild:
		return m.AddChild(other)
	}
	return relationError(kind, m, ErrInvalidRelative, "unknown relation kind")
}

// Has answers a derived attribute query.
func (m *Member) Has(attr Attribute) bool {
	switch attr {
	case HasFather:
		return m.father != nil
	case HasMother:
		return m.mother != nil
	case HasSpouse:
		return m.spouse != nil
	case HasChildren:
		return m.NumChildren() > 0
	case HasMaidenName:
		return m.maidenName != ""
	case HasParents:
		return m.father != nil || m.mother != nil
	}
	return false
}

// Children returns the children visible through this member: those recorded on the
// member followed by those recorded on the spouse, without duplicates. The slice is
// a fresh copy.
func (m *Member) Children() []*Member {
	out := slices.Clone(m.children)
	if m.spouse == nil {
		return out
	}
	for _, c := range m.spouse.children {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// OwnChildren returns only the children recorded directly on this member.
func (m *Member) OwnChildren() []*Member { return slices.Clone(m.children) }

// NumChildren counts the children visible through Children.
func (m *Member) NumChildren() int { return len(m.Children()) }

// HasChild reports whether c is visible among this member's children.
func (m *Member) HasChild(c *Member) bool {
	if slices.Contains(m.children, c) {
		return true
	}
	return m.spouse != nil && slices.Contains(m.spouse.children, c)
}

func (m *Member) appendChild(c *Member) {
	if !m.HasChild(c) {
		m.children = append(m.children, c)
	}
}

// isAncestorOf reports whether m appears among other's recorded ancestors.
func (m *Member) isAncestorOf(other *Member) bool {
	seen := make(map[*Member]struct{})
	stack := []*Member{other}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range []*Member{cur.father, cur.mother} {
			if p == nil {
				continue
			}
			if p == m {
				return true
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			stack = append(stack, p)
		}
	}
	return false
}

// String renders the sex glyph, the name and, when present, the maiden name.
func (m *Member) String() string {
	s := m.gender.Glyph() + " " + m.firstName + " " + m.lastName
	if m.maidenName != "" {
		s += " (" + m.maidenName + ")"
	}
	return s
}
