package models

// SampleContacts returns the built-in demo directory. The contacts
// screen falls back to this set whenever the remote directory is empty
// or unreachable, so a fresh backend never shows an empty list. The
// uids match the users seeded by the hosted service's demo app.
func SampleContacts() []Contact {
	return []Contact{
		{UID: "superhero1", Name: "Iron Man"},
		{UID: "superhero2", Name: "Captain America"},
		{UID: "superhero3", Name: "Spiderman"},
		{UID: "superhero4", Name: "Wolverine"},
	}
}
