package models

// Source tells where a birthday match came from.
type Source string

const (
	// SourcePublic marks a User sharing a public group with the requester.
	SourcePublic Source = "public"
	// SourcePrivate marks a PrivateUser contact created by the requester.
	SourcePrivate Source = "private"
)

// Birthday is one person whose birthday matched the queried day.
// The same person may appear twice, once per source.
type Birthday struct {
	ID     string
	Name   string
	Mobile string
	DOB    Date
	Source Source
}

// BirthdayList is the result of a birthday query: public matches first, then private.
type BirthdayList struct {
	Count     int
	Birthdays []Birthday
}
