package model

type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
)

const (
	DifficultyBeginner     = 1
	DifficultyIntermediate = 2
	DifficultyAdvanced     = 3
)

// swagger:model
type ContentItem struct {
	BaseModel
	Title            string        `gorm:"size:255;not null" json:"title"`
	ShortDescription string        `gorm:"size:500" json:"short_description"`
	Description      string        `gorm:"type:text" json:"description"`
	Difficulty       int           `gorm:"not null;default:1" json:"difficulty"`
	Status           ContentStatus `gorm:"size:20;index;not null" json:"status"`
	DurationHours    float64       `json:"duration_hours"`
}

func (c *ContentItem) Ref() ContentRef {
	return ContentRef{
		ID:               c.ID,
		Title:            c.Title,
		ShortDescription: c.ShortDescription,
		Difficulty:       c.Difficulty,
		DurationHours:    c.DurationHours,
	}
}
