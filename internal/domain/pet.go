package domain

type Pet struct {
	ID       int64
	OwnerID  int64
	Name     string
	Species  string
	Breed    *string
	AgeYears *int
	Notes    *string
	PhotoURL *string
}
