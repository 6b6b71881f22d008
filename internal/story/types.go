package story

// Record is one story entry in the dataset. Field names match the
// stories.json schema consumed by the app's offline bundle.
type Record struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ImagePrompt     string `json:"imagePrompt,omitempty"`
	DifficultyLevel int    `json:"difficultyLevel"`
	CoverImageURL   string `json:"coverImageURL,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// Dataset is the ordered story collection as stored on disk. Indices into
// Stories are stable for the duration of a run and double as the local
// filename scheme, so records are never reordered.
type Dataset struct {
	Stories []Record `json:"stories"`
}

// Len returns the number of stories in the dataset.
func (d *Dataset) Len() int {
	return len(d.Stories)
}
