package models

// Link is a social link shown under the bio.
type Link struct {
	Label string `mapstructure:"label" json:"label"`
	URL   string `mapstructure:"url" json:"url"`
	Icon  string `mapstructure:"icon" json:"icon"` // x | github | linkedin | mail
}

// Profile is the static bio content of the landing page.
type Profile struct {
	Name       string   `mapstructure:"name" json:"name"`
	Greeting   string   `mapstructure:"greeting" json:"greeting"`
	Paragraphs []string `mapstructure:"paragraphs" json:"paragraphs"`
	Tech       []string `mapstructure:"tech" json:"tech"`
	Links      []Link   `mapstructure:"links" json:"links"`
	Location   string   `mapstructure:"location" json:"location"`
	ImagePath  string   `mapstructure:"image_path" json:"image_path"`
}
