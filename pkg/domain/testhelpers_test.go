package domain

import "testing"

func mustAddress(t testing.TB) *Address {
	t.Helper()
	a, err := NewAddress("12", "Main St", "Springfield", "1234")
	if err != nil {
		t.Fatalf("new address: %v", err)
	}
	return a
}

func mustMember(t testing.TB, first, last string, gender Gender) *Member {
	t.Helper()
	m, err := NewMember(first, last, gender, mustAddress(t), "")
	if err != nil {
		t.Fatalf("new member %s %s: %v", first, last, err)
	}
	return m
}

func mustLink(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("link: %v", err)
	}
}
