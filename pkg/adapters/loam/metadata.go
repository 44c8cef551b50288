package loam

// FormMetadata represents the frontmatter of a form document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type FormMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title" mapstructure:"title"`

	// Controls lists node maps and fragment imports. A string entry is the
	// ID of another document whose controls are spliced in at that position.
	Controls []any `json:"controls" mapstructure:"controls"`
}
