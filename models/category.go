package models

// Category represents a product category and the units it can be measured in
type Category struct {
	Value string   `json:"value" yaml:"value"`
	Label string   `json:"label" yaml:"label"`
	Units []string `json:"units" yaml:"units"`
}

// HasUnit checks whether unit belongs to the category
func (c Category) HasUnit(unit string) bool {
	for _, u := range c.Units {
		if u == unit {
			return true
		}
	}
	return false
}

// DefaultUnit returns the first configured unit, or "" when none exist
func (c Category) DefaultUnit() string {
	if len(c.Units) == 0 {
		return ""
	}
	return c.Units[0]
}
