package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestNewMemberValidatesFields(t *testing.T) {
	addr := mustAddress(t)
	if _, err := NewMember("J0hn", "Doe", GenderMale, addr, ""); !IsValidationError(err) {
		t.Fatalf("expected ValidationError for digit in first name, got %v", err)
	}
	if _, err := NewMember("John", "", GenderMale, addr, ""); !IsValidationError(err) {
		t.Fatalf("expected ValidationError for empty last name, got %v", err)
	}
	if _, err := NewMember("John", "Doe", Gender("other"), addr, ""); !IsValidationError(err) {
		t.Fatalf("expected ValidationError for unknown gender, got %v", err)
	}
	if _, err := NewMember("John", "Doe", GenderMale, nil, ""); !IsValidationError(err) {
		t.Fatalf("expected ValidationError for missing address, got %v", err)
	}
	m, err := NewMember(" John ", " Doe", GenderMale, addr, "Farmer, 1900s.")
	if err != nil {
		t.Fatalf("new member: %v", err)
	}
	if m.FirstName() != "John" || m.LastName() != "Doe" || m.MaidenName() != "" {
		t.Fatalf("unexpected names: %q %q %q", m.FirstName(), m.LastName(), m.MaidenName())
	}
	if m.LifeDescription() != "Farmer, 1900s." || m.Address() != addr || m.ID() == "" {
		t.Fatalf("unexpected member fields")
	}
	if m.Has(HasParents) || m.Has(HasSpouse) || m.Has(HasChildren) {
		t.Fatalf("new member should have no relations")
	}
}

func TestMaidenNameOnlyForFemale(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	if err := john.SetMaidenName("Smith"); !IsValidationError(err) {
		t.Fatalf("expected ValidationError for male maiden name, got %v", err)
	}
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	if err := jane.SetMaidenName("Smith"); err != nil {
		t.Fatalf("set maiden name: %v", err)
	}
	if !jane.Has(HasMaidenName) || jane.String() != "♀ Jane Doe (Smith)" {
		t.Fatalf("unexpected maiden name state: %q", jane.String())
	}
	if err := jane.SetMaidenName("Sm1th"); !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if jane.MaidenName() != "Smith" {
		t.Fatalf("failed setter changed maiden name to %q", jane.MaidenName())
	}
	if err := jane.SetMaidenName(""); err != nil {
		t.Fatalf("clear maiden name: %v", err)
	}
	if jane.Has(HasMaidenName) {
		t.Fatalf("expected maiden name cleared")
	}
}

func TestFailedNameSetterKeepsValue(t *testing.T) {
	m := mustMember(t, "John", "Doe", GenderMale)
	if err := m.SetFirstName("J@hn"); !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := m.SetLastName("123"); !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if m.FirstName() != "John" || m.LastName() != "Doe" {
		t.Fatalf("names changed by failed setters")
	}
}

func TestSetMotherLinksBothSides(t *testing.T) {
	child := mustMember(t, "Alex", "Doe", GenderMale)
	mother := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, child.SetMother(mother))
	if child.Mother() != mother || !mother.HasChild(child) {
		t.Fatalf("expected mother link with back-reference")
	}
	if !child.Has(HasMother) || !child.Has(HasParents) || child.Has(HasFather) {
		t.Fatalf("unexpected attribute answers")
	}
}

func TestSetMotherTwiceFails(t *testing.T) {
	child := mustMember(t, "Alex", "Doe", GenderMale)
	first := mustMember(t, "Jane", "Doe", GenderFemale)
	second := mustMember(t, "Mary", "Roe", GenderFemale)
	mustLink(t, child.SetMother(first))
	err := child.SetMother(second)
	var rerr *RelationshipError
	if !errors.As(err, &rerr) || !errors.Is(err, ErrRelationAlreadySet) {
		t.Fatalf("expected RelationshipError wrapping ErrRelationAlreadySet, got %v", err)
	}
	if child.Mother() != first || second.Has(HasChildren) {
		t.Fatalf("second SetMother mutated state")
	}
}

func TestParentGenderEnforced(t *testing.T) {
	child := mustMember(t, "Alex", "Doe", GenderMale)
	man := mustMember(t, "John", "Doe", GenderMale)
	woman := mustMember(t, "Jane", "Doe", GenderFemale)
	if err := child.SetMother(man); !errors.Is(err, ErrGenderMismatch) {
		t.Fatalf("expected gender mismatch for male mother, got %v", err)
	}
	if err := child.SetFather(woman); !errors.Is(err, ErrGenderMismatch) {
		t.Fatalf("expected gender mismatch for female father, got %v", err)
	}
	if child.Has(HasParents) || man.Has(HasChildren) || woman.Has(HasChildren) {
		t.Fatalf("failed parent links mutated state")
	}
}

func TestParentGuards(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	if err := john.SetFather(john); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected self parent rejected, got %v", err)
	}
	if err := john.SetFather(nil); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected nil parent rejected, got %v", err)
	}
	son := mustMember(t, "Alex", "Doe", GenderMale)
	mustLink(t, son.SetFather(john))
	if err := john.SetFather(son); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected descendant as parent rejected, got %v", err)
	}
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, jane.SetSpouse(john))
	if err := jane.SetFather(john); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected spouse as parent rejected, got %v", err)
	}
}

func TestSetSpouseIsMutual(t *testing.T) {
	a := mustMember(t, "John", "Doe", GenderMale)
	b := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, a.SetSpouse(b))
	if a.Spouse() != b || b.Spouse() != a {
		t.Fatalf("expected mutual spouse link")
	}
	if err := b.SetSpouse(a); !errors.Is(err, ErrRelationAlreadySet) {
		t.Fatalf("expected second marriage call to fail, got %v", err)
	}
}

func TestSetSpouseSameGenderFails(t *testing.T) {
	a := mustMember(t, "John", "Doe", GenderMale)
	b := mustMember(t, "Jim", "Roe", GenderMale)
	err := a.SetSpouse(b)
	if !IsRelationshipError(err) || !errors.Is(err, ErrGenderMismatch) {
		t.Fatalf("expected gender mismatch, got %v", err)
	}
	if a.Has(HasSpouse) || b.Has(HasSpouse) {
		t.Fatalf("failed marriage left a spouse link")
	}
}

func TestSetSpouseRejectsMarriedPartner(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	jim := mustMember(t, "Jim", "Roe", GenderMale)
	mustLink(t, john.SetSpouse(jane))
	if err := jim.SetSpouse(jane); !errors.Is(err, ErrRelationAlreadySet) {
		t.Fatalf("expected married partner rejected, got %v", err)
	}
	if jim.Has(HasSpouse) || jane.Spouse() != john {
		t.Fatalf("failed marriage mutated state")
	}
}

func TestAddChildBackfillsBothParents(t *testing.T) {
	father := mustMember(t, "John", "Doe", GenderMale)
	mother := mustMember(t, "Jane", "Doe", GenderFemale)
	child := mustMember(t, "Alex", "Doe", GenderMale)
	mustLink(t, father.SetSpouse(mother))
	mustLink(t, father.AddChild(child))
	if child.Father() != father || child.Mother() != mother {
		t.Fatalf("expected both parents back-filled")
	}
	if !slices.Contains(father.Children(), child) || !slices.Contains(mother.Children(), child) {
		t.Fatalf("expected child visible through both parents")
	}
	if father.NumChildren() != 1 || mother.NumChildren() != 1 {
		t.Fatalf("expected one child each, got %d and %d", father.NumChildren(), mother.NumChildren())
	}
}

func TestAddChildFromMotherSide(t *testing.T) {
	father := mustMember(t, "John", "Doe", GenderMale)
	mother := mustMember(t, "Jane", "Doe", GenderFemale)
	child := mustMember(t, "Ann", "Doe", GenderFemale)
	mustLink(t, mother.SetSpouse(father))
	mustLink(t, mother.AddChild(child))
	if child.Mother() != mother || child.Father() != father {
		t.Fatalf("expected both parents back-filled from mother")
	}
}

func TestAddChildKeepsExistingParent(t *testing.T) {
	stepfather := mustMember(t, "Jim", "Roe", GenderMale)
	father := mustMember(t, "John", "Doe", GenderMale)
	child := mustMember(t, "Alex", "Doe", GenderMale)
	mustLink(t, child.SetFather(father))
	mustLink(t, stepfather.AddChild(child))
	if child.Father() != father {
		t.Fatalf("existing father replaced")
	}
	if !stepfather.HasChild(child) {
		t.Fatalf("expected step-child recorded on the adding member")
	}
	mustLink(t, stepfather.AddChild(child))
	if len(stepfather.OwnChildren()) != 1 {
		t.Fatalf("expected no duplicate child entries")
	}
}

func TestAddChildRejectsSpouseAndAncestors(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, john.SetSpouse(jane))
	err := john.AddChild(jane)
	if !IsRelationshipError(err) || !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected spouse to be refused as a child, got %v", err)
	}
	if john.NumChildren() != 0 || jane.Father() != nil {
		t.Fatalf("expected no links after refusing a spouse as a child")
	}

	// Ancestors with both parents recorded skip the parent guards, so the
	// ancestry check has to catch them on its own.
	grandpa := mustMember(t, "Gus", "Doe", GenderMale)
	mustLink(t, grandpa.SetFather(mustMember(t, "Abe", "Doe", GenderMale)))
	mustLink(t, grandpa.SetMother(mustMember(t, "Bea", "Doe", GenderFemale)))
	mustLink(t, john.SetFather(grandpa))
	if err := john.AddChild(grandpa); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected father to be refused as a child, got %v", err)
	}

	grandma := mustMember(t, "Gia", "Roe", GenderFemale)
	mustLink(t, grandma.SetFather(mustMember(t, "Cal", "Roe", GenderMale)))
	mustLink(t, grandma.SetMother(mustMember(t, "Dot", "Roe", GenderFemale)))
	mum := mustMember(t, "Mia", "Roe", GenderFemale)
	mustLink(t, mum.SetMother(grandma))
	mustLink(t, jane.SetMother(mum))
	if err := jane.AddChild(grandma); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected grandmother to be refused as a child, got %v", err)
	}
	if len(john.OwnChildren()) != 0 || len(jane.OwnChildren()) != 0 {
		t.Fatalf("expected refused children to stay unrecorded, got %v / %v", john.OwnChildren(), jane.OwnChildren())
	}
}

func TestAddChildPartialApplication(t *testing.T) {
	father := mustMember(t, "John", "Doe", GenderMale)
	mother := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, father.SetSpouse(mother))
	// The child is recorded as the mother's father, so linking her as his mother fails
	// after the father link has already been applied.
	child := mustMember(t, "Alex", "Doe", GenderMale)
	mustLink(t, mother.SetFather(child))
	err := father.AddChild(child)
	if !IsRelationshipError(err) {
		t.Fatalf("expected relationship error, got %v", err)
	}
	if child.Father() != father {
		t.Fatalf("expected first step to remain applied")
	}
	if child.Mother() != nil {
		t.Fatalf("expected failed second step to leave mother unset")
	}
}

func TestChildrenVisibleAcrossMarriage(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	older := mustMember(t, "Ann", "Doe", GenderFemale)
	mustLink(t, john.AddChild(older))
	mustLink(t, john.SetSpouse(jane))
	if !jane.HasChild(older) {
		t.Fatalf("expected pre-marriage child visible through spouse")
	}
	if older.Mother() != nil {
		t.Fatalf("marriage must not set parent links")
	}
	younger := mustMember(t, "Bob", "Doe", GenderMale)
	mustLink(t, jane.AddChild(younger))
	got := john.Children()
	if len(got) != 2 || got[0] != older || got[1] != younger {
		t.Fatalf("unexpected children order %v", got)
	}
}

func TestAddRelativeDispatch(t *testing.T) {
	john := mustMember(t, "John", "Doe", GenderMale)
	jane := mustMember(t, "Jane", "Doe", GenderFemale)
	grandpa := mustMember(t, "Old", "Doe", GenderMale)
	grandma := mustMember(t, "Olga", "Doe", GenderFemale)
	mustLink(t, john.AddRelative(RelationFather, grandpa))
	mustLink(t, john.AddRelative(RelationMother, grandma))
	mustLink(t, john.AddRelative(RelationSpouse, jane))
	if john.Father() != grandpa || john.Mother() != grandma || jane.Spouse() != john {
		t.Fatalf("unexpected dispatch results")
	}
	if err := john.AddRelative(RelationKind("cousin"), jane); !errors.Is(err, ErrInvalidRelative) {
		t.Fatalf("expected unknown relation kind rejected, got %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	address, err := NewAddress("12", "Main St", "Springfield", "1234")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	john, err := NewMember("John", "Doe", GenderMale, address, "")
	if err != nil {
		t.Fatalf("john: %v", err)
	}
	jane, err := NewMember("Jane", "Doe", GenderFemale, address.Clone(), "")
	if err != nil {
		t.Fatalf("jane: %v", err)
	}
	mustLink(t, john.AddRelative(RelationSpouse, jane))
	if john.Spouse() != jane || jane.Spouse() != john {
		t.Fatalf("expected mutual spouses")
	}
	child, err := NewMember("Alex", "Doe", GenderMale, address.Clone(), "")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	mustLink(t, john.AddRelative(RelationChild, child))
	if child.Father() != john || child.Mother() != jane {
		t.Fatalf("expected child parents john and jane")
	}
	if !slices.Contains(jane.Children(), child) || !slices.Contains(john.Children(), child) {
		t.Fatalf("expected child listed by both parents")
	}
}

func TestSetGenderGuards(t *testing.T) {
	m := mustMember(t, "Sam", "Doe", GenderFemale)
	mustLink(t, m.SetMaidenName("Roe"))
	if err := m.SetGender(GenderMale); !IsValidationError(err) {
		t.Fatalf("expected maiden name to block gender change, got %v", err)
	}
	mustLink(t, m.SetMaidenName(""))
	mustLink(t, m.SetGender(GenderMale))
	if m.Gender() != GenderMale || m.String() != "♂ Sam Doe" {
		t.Fatalf("unexpected gender state %q", m.String())
	}
	wife := mustMember(t, "Jane", "Doe", GenderFemale)
	mustLink(t, m.SetSpouse(wife))
	if err := m.SetGender(GenderFemale); !IsRelationshipError(err) {
		t.Fatalf("expected marriage to block gender change, got %v", err)
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	father := mustMember(t, "John", "Doe", GenderMale)
	child := mustMember(t, "Alex", "Doe", GenderMale)
	mustLink(t, father.AddChild(child))
	view := father.Children()
	view[0] = nil
	if father.Children()[0] != child {
		t.Fatalf("children view aliases internal storage")
	}
}
