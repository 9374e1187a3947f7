package model

import "testing"

func TestStage_Valid(t *testing.T) {
	for _, s := range Stages {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []Stage{"", "archived", "NEW"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestContactListOptions_Normalize(t *testing.T) {
	got := ContactListOptions{Stage: "bogus", SortBy: "id", SortOrder: "ASC", Page: -2}.Normalize()
	want := ContactListOptions{SortBy: SortByCreatedAt, SortOrder: "desc", Page: 1}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	kept := ContactListOptions{Search: "anna", Stage: StageLost, SortBy: SortByEmail, SortOrder: "asc", Page: 4}.Normalize()
	if kept.Stage != StageLost || kept.SortBy != SortByEmail || kept.SortOrder != "asc" || kept.Page != 4 {
		t.Errorf("valid options altered: %+v", kept)
	}
	if kept.Offset() != 60 {
		t.Errorf("expected offset 60, got %d", kept.Offset())
	}
}

func TestContactListOptions_NormalizeCapsPage(t *testing.T) {
	got := ContactListOptions{Page: 922337203685477581}.Normalize()
	if got.Page != MaxContactListPage {
		t.Fatalf("expected page capped at %d, got %d", MaxContactListPage, got.Page)
	}
	if got.Offset() < 0 {
		t.Errorf("offset overflowed: %d", got.Offset())
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct{ total, pages int }{{0, 0}, {1, 1}, {20, 1}, {21, 2}, {95, 5}}
	for _, c := range cases {
		p := NewPagination(1, c.total)
		if p.TotalPages != c.pages || p.ItemsPerPage != 20 || p.TotalItems != c.total {
			t.Errorf("total=%d: got %+v", c.total, p)
		}
	}
}

func TestContactRequest_CloneIsIndependent(t *testing.T) {
	phone := "+47 900 00 000"
	ip := "203.0.113.1"
	orig := &ContactRequest{
		ID:       "x",
		Phone:    &phone,
		Services: []string{"Catering"},
		Tags:     []string{"website"},
		Metadata: RequestMetadata{IPAddress: &ip},
	}

	c := orig.Clone()
	c.Services[0] = "Annet"
	c.Tags = append(c.Tags, "extra")
	*c.Phone = "changed"
	*c.Metadata.IPAddress = "changed"

	if orig.Services[0] != "Catering" || len(orig.Tags) != 1 {
		t.Errorf("clone shares slices with original: %+v", orig)
	}
	if *orig.Phone != "+47 900 00 000" || *orig.Metadata.IPAddress != "203.0.113.1" {
		t.Error("clone shares pointers with original")
	}

	empty := (&ContactRequest{Services: []string{}}).Clone()
	if empty.Services == nil {
		t.Error("empty services should stay non-nil")
	}
}
