package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Snapshot header values written to every document.
const (
	SnapshotFormat  = "familytree"
	SnapshotVersion = 1
	// DocumentExtension is the conventional file extension of an encoded tree.
	DocumentExtension = ".ft"
	// DocumentContentType labels encoded trees in blob stores.
	DocumentContentType = "application/vnd.familytree+json"
)

// ErrMalformedSnapshot is wrapped by every structural decode failure.
var ErrMalformedSnapshot = errors.New("malformed family tree snapshot")

// AddressRecord is the encoded form of one distinct Address.
type AddressRecord struct {
	ID           string `json:"id"`
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	Suburb       string `json:"suburb"`
	PostCode     string `json:"post_code"`
}

// MemberRecord is the encoded form of one member. Relationships are identifier
// references into the same snapshot.
type MemberRecord struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	MaidenName      string   `json:"maiden_name"`
	Gender          Gender   `json:"gender"`
	AddressID       string   `json:"address_id"`
	LifeDescription string   `json:"life_description"`
	FatherID        string   `json:"father_id,omitempty"`
	MotherID        string   `json:"mother_id,omitempty"`
	SpouseID        string   `json:"spouse_id,omitempty"`
	ChildIDs        []string `json:"child_ids"`
}

// Snapshot is the self-contained, identifier-linked form of a tree's reachable graph.
type Snapshot struct {
	Format    string          `json:"format"`
	Version   int             `json:"version"`
	RootID    string          `json:"root_id,omitempty"`
	Addresses []AddressRecord `json:"addresses"`
	Members   []MemberRecord  `json:"members"`
}

// ExportSnapshot flattens the graph reachable from the tree's root. Each distinct
// address receives an identifier on first encounter so shared addresses stay shared.
func ExportSnapshot(t *FamilyTree) (Snapshot, error) {
	if t == nil {
		return Snapshot{}, errors.New("nil family tree")
	}
	snap := Snapshot{
		Format:    SnapshotFormat,
		Version:   SnapshotVersion,
		Addresses: []AddressRecord{},
		Members:   []MemberRecord{},
	}
	if t.root == nil {
		return snap, nil
	}
	snap.RootID = t.root.id
	addrIDs := make(map[*Address]string)
	for _, m := range t.Members() {
		if m.address == nil {
			return Snapshot{}, fmt.Errorf("member %s has no address", m.id)
		}
		aid, ok := addrIDs[m.address]
		if !ok {
			aid = "a" + strconv.Itoa(len(addrIDs)+1)
			addrIDs[m.address] = aid
			snap.Addresses = append(snap.Addresses, AddressRecord{
				ID:           aid,
				StreetNumber: m.address.streetNumber,
				StreetName:   m.address.streetName,
				Suburb:       m.address.suburb,
				PostCode:     m.address.postCode,
			})
		}
		rec := MemberRecord{
			ID:              m.id,
			FirstName:       m.firstName,
			LastName:        m.lastName,
			MaidenName:      m.maidenName,
			Gender:          m.gender,
			AddressID:       aid,
			LifeDescription: m.lifeDescription,
			FatherID:        memberID(m.father),
			MotherID:        memberID(m.mother),
			SpouseID:        memberID(m.spouse),
			ChildIDs:        make([]string, 0, len(m.children)),
		}
		for _, c := range m.children {
			rec.ChildIDs = append(rec.ChildIDs, c.id)
		}
		snap.Members = append(snap.Members, rec)
	}
	return snap, nil
}

func memberID(m *Member) string {
	if m == nil {
		return ""
	}
	return m.id
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSnapshot, fmt.Sprintf(format, args...))
}

// ImportSnapshot rebuilds a tree in two phases: every address and member is allocated
// and validated first, then relationships are wired by identifier. Any inconsistency
// fails the whole import; no partially wired tree is returned.
func ImportSnapshot(s Snapshot) (*FamilyTree, error) {
	if s.Format != SnapshotFormat {
		return nil, malformed("unexpected format %q", s.Format)
	}
	if s.Version != SnapshotVersion {
		return nil, malformed("unsupported version %d", s.Version)
	}
	if s.RootID == "" {
		if len(s.Members) > 0 || len(s.Addresses) > 0 {
			return nil, malformed("records present without a root")
		}
		return NewFamilyTree(), nil
	}

	addresses := make(map[string]*Address, len(s.Addresses))
	for _, rec := range s.Addresses {
		if rec.ID == "" {
			return nil, malformed("address without id")
		}
		if _, dup := addresses[rec.ID]; dup {
			return nil, malformed("duplicate address id %s", rec.ID)
		}
		a, err := NewAddress(rec.StreetNumber, rec.StreetName, rec.Suburb, rec.PostCode)
		if err != nil {
			return nil, malformed("address %s: %v", rec.ID, err)
		}
		addresses[rec.ID] = a
	}

	members := make(map[string]*Member, len(s.Members))
	for _, rec := range s.Members {
		if rec.ID == "" {
			return nil, malformed("member without id")
		}
		if _, dup := members[rec.ID]; dup {
			return nil, malformed("duplicate member id %s", rec.ID)
		}
		addr, ok := addresses[rec.AddressID]
		if !ok {
			return nil, malformed("member %s references unknown address %q", rec.ID, rec.AddressID)
		}
		m, err := NewMember(rec.FirstName, rec.LastName, rec.Gender, addr, rec.LifeDescription)
		if err != nil {
			return nil, malformed("member %s: %v", rec.ID, err)
		}
		if err := m.SetMaidenName(rec.MaidenName); err != nil {
			return nil, malformed("member %s: %v", rec.ID, err)
		}
		m.id = rec.ID
		members[rec.ID] = m
	}

	lookup := func(owner, role, id string) (*Member, error) {
		if id == "" {
			return nil, nil
		}
		ref, ok := members[id]
		if !ok {
			return nil, malformed("member %s references unknown %s %s", owner, role, id)
		}
		return ref, nil
	}
	for _, rec := range s.Members {
		m := members[rec.ID]
		var err error
		if m.father, err = lookup(rec.ID, "father", rec.FatherID); err != nil {
			return nil, err
		}
		if m.mother, err = lookup(rec.ID, "mother", rec.MotherID); err != nil {
			return nil, err
		}
		if m.spouse, err = lookup(rec.ID, "spouse", rec.SpouseID); err != nil {
			return nil, err
		}
		m.children = make([]*Member, 0, len(rec.ChildIDs))
		for _, cid := range rec.ChildIDs {
			c, err := lookup(rec.ID, "child", cid)
			if err != nil {
				return nil, err
			}
			for _, existing := range m.children {
				if existing == c {
					return nil, malformed("member %s lists child %s twice", rec.ID, cid)
				}
			}
			m.children = append(m.children, c)
		}
	}

	for _, rec := range s.Members {
		if err := checkWiring(members[rec.ID]); err != nil {
			return nil, err
		}
	}

	root, ok := members[s.RootID]
	if !ok {
		return nil, malformed("unknown root %s", s.RootID)
	}
	tree := &FamilyTree{root: root}
	if reached := len(tree.Members()); reached != len(members) {
		return nil, malformed("%d of %d members unreachable from root", len(members)-reached, len(members))
	}
	return tree, nil
}

func checkWiring(m *Member) error {
	if f := m.father; f != nil {
		if f.gender != GenderMale {
			return malformed("member %s has a father who is not male", m.id)
		}
		if !f.HasChild(m) {
			return malformed("father %s does not list child %s", f.id, m.id)
		}
	}
	if mo := m.mother; mo != nil {
		if mo.gender != GenderFemale {
			return malformed("member %s has a mother who is not female", m.id)
		}
		if !mo.HasChild(m) {
			return malformed("mother %s does not list child %s", mo.id, m.id)
		}
	}
	if s := m.spouse; s != nil {
		if s.spouse != m {
			return malformed("spouse link between %s and %s is not mutual", m.id, s.id)
		}
		if s.gender == m.gender {
			return malformed("spouses %s and %s share a gender", m.id, s.id)
		}
	}
	for _, c := range m.children {
		if c == m {
			return malformed("member %s lists itself as a child", m.id)
		}
	}
	if m.isAncestorOf(m) {
		return malformed("member %s is their own ancestor", m.id)
	}
	return nil
}

// Encode serializes the tree as a .ft JSON document.
func Encode(t *FamilyTree) ([]byte, error) {
	snap, err := ExportSnapshot(t)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Decode parses a .ft JSON document. Unknown fields, trailing data and truncated
// input are rejected as malformed.
func Decode(data []byte) (*FamilyTree, error) {
	snap, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ImportSnapshot(snap)
}

// DecodeSnapshot reads one snapshot document from r without wiring it.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if dec.More() {
		return Snapshot{}, malformed("trailing data after document")
	}
	return snap, nil
}
