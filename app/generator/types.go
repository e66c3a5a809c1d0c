package generator

// Post is the derived, never-persisted payload for one article: the full
// text bounded by the ideal character budget, a shorter caption cut from it,
// and the source article's image when one was found.
type Post struct {
	Text     string
	Caption  string
	ImageURL string
}

// VacancyData is a manually submitted job posting. All fields are optional;
// absent fields are omitted from the formatted post.
type VacancyData struct {
	Position     string
	Company      string
	Location     string
	Salary       string
	Experience   string
	Description  string
	Requirements string
	Benefits     string
	Contact      string
}

// AdData is a manually submitted advertisement.
type AdData struct {
	Title       string
	Brand       string
	Description string
	Offer       string
	Link        string
	Contact     string
}
