package models

// MaxCuisineLevels is the depth of the cuisine category hierarchy.
const MaxCuisineLevels = 5

// Cuisine is a cuisine tag with up to five hierarchical category levels,
// shallowest first. Empty levels are unused depth, not wildcards.
type Cuisine struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"unique;not null" json:"name"`
	Category1 string `json:"category_1,omitempty"`
	Category2 string `json:"category_2,omitempty"`
	Category3 string `json:"category_3,omitempty"`
	Category4 string `json:"category_4,omitempty"`
	Category5 string `json:"category_5,omitempty"`
}

// TableName specifies the table name for GORM
func (Cuisine) TableName() string {
	return "cuisines"
}

// SetCategory assigns the hierarchy level at the given zero-based index.
// Indexes beyond MaxCuisineLevels are ignored.
func (c *Cuisine) SetCategory(index int, value string) {
	switch index {
	case 0:
		c.Category1 = value
	case 1:
		c.Category2 = value
	case 2:
		c.Category3 = value
	case 3:
		c.Category4 = value
	case 4:
		c.Category5 = value
	}
}

// Categories returns the non-empty hierarchy levels in order.
func (c Cuisine) Categories() []string {
	levels := [MaxCuisineLevels]string{c.Category1, c.Category2, c.Category3, c.Category4, c.Category5}
	out := make([]string, 0, MaxCuisineLevels)
	for _, l := range levels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
