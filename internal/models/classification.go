package models

// Classification pairs a description with the single category assigned to it.
type Classification struct {
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category" yaml:"category"`
	Method      string  `json:"method" yaml:"method"`
	Rule        string  `json:"rule,omitempty" yaml:"rule,omitempty"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// Unclassified returns the sentinel result for description.
func Unclassified(description string) Classification {
	return Classification{
		Description: description,
		Category:    CategoryUnclassified,
		Method:      MethodNone,
	}
}

// IsUnclassified reports whether the result carries the sentinel category.
func (c Classification) IsUnclassified() bool {
	return c.Category == CategoryUnclassified
}
