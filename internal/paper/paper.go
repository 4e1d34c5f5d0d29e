// Package paper defines the core domain types for the citation pipeline.
package paper

// Paper is one bibliographic work. Identity is the OpenAlex work ID, which is
// assigned by the metadata service and never derived by this pipeline.
type Paper struct {
	// OpenAlexID is the stable work identifier, e.g. "https://openalex.org/W123".
	OpenAlexID string `json:"openalex_id"`

	// DOI is the canonical DOI, or "" when the work has none.
	DOI string `json:"doi"`

	Title string `json:"title"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year"`

	// InCollection marks membership in the user's reference-manager collection,
	// fixed at ingestion time.
	InCollection bool `json:"in_collection"`

	// Tally holds citation-stance counts attached by the tally merger.
	// All-zero until merged; all-zero after merging when no record matched.
	Tally Tally `json:"tally"`
}

// Tally is the set of citation-stance counters for one work.
type Tally struct {
	Supporting         int `json:"supporting"`
	Contradicting      int `json:"contradicting"`
	Mentioning         int `json:"mentioning"`
	Unclassified       int `json:"unclassified"`
	Total              int `json:"total"`
	CitingPublications int `json:"citingPublications"`
}

// Edge is a directed citation: the citing work references the cited work.
// Cited IDs may point at works outside the fetched corpus; whether such an
// edge survives is decided at graph assembly, not here.
type Edge struct {
	CitingID string `json:"citing_openalex_id"`
	CitedID  string `json:"cited_openalex_id"`
}
