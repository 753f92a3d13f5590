package models

// SavedSearch represents a saved message search
type SavedSearch struct {
	Name           string `yaml:"name"`
	ChannelPattern string `yaml:"channel_pattern"`
	Sender         string `yaml:"sender"`
	Contains       string `yaml:"contains"`
	AgeOp          string `yaml:"age_op"` // within, older
	AgeValue       int    `yaml:"age_value"`
	AgeUnit        string `yaml:"age_unit"` // minutes, hours, days
	Limit          int    `yaml:"limit"`
}

// SearchConfig holds all saved searches
type SearchConfig struct {
	Searches []SavedSearch `yaml:"searches"`
}
