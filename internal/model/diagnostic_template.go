package model

type QuestionType string

const (
	QuestionScored   QuestionType = "scored"
	QuestionFreeText QuestionType = "free_text"
)

// swagger:model
type DiagnosticTemplate struct {
	BaseModel
	Name             string           `gorm:"size:150;not null" json:"name"`
	Slug             string           `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Description      string           `gorm:"type:text" json:"description"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	IsActive         bool             `gorm:"index" json:"is_active"`
	Areas            []DiagnosticArea `gorm:"foreignKey:TemplateID" json:"areas,omitempty"`
}

// swagger:model
type DiagnosticArea struct {
	BaseModel
	TemplateID  uint                 `gorm:"index;not null" json:"template_id"`
	Name        string               `gorm:"size:150;not null" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	Weight      float64              `gorm:"not null" json:"weight"`
	Order       int                  `gorm:"column:sort_order" json:"order"`
	Questions   []DiagnosticQuestion `gorm:"foreignKey:AreaID" json:"questions,omitempty"`
}

// swagger:model
type DiagnosticQuestion struct {
	BaseModel
	AreaID   uint         `gorm:"index;not null" json:"area_id"`
	Prompt   string       `gorm:"type:text;not null" json:"prompt"`
	HelpText string       `gorm:"type:text" json:"help_text,omitempty"`
	Type     QuestionType `gorm:"size:20;not null" json:"type"`
	Weight   float64      `gorm:"not null" json:"weight"`
	ScaleMin float64      `json:"scale_min"`
	ScaleMax float64      `json:"scale_max"`
	MinLabel string       `gorm:"size:100" json:"min_label,omitempty"`
	MaxLabel string       `gorm:"size:100" json:"max_label,omitempty"`
	Required bool         `json:"required"`
	Order    int          `gorm:"column:sort_order" json:"order"`
}

func (q *DiagnosticQuestion) IsScored() bool {
	return q.Type != QuestionFreeText
}

func (t *DiagnosticTemplate) QuestionCount() int {
	n := 0
	for _, a := range t.Areas {
		n += len(a.Questions)
	}
	return n
}

// FindQuestion looks a question up across all areas of the template.
func (t *DiagnosticTemplate) FindQuestion(id uint) (*DiagnosticQuestion, bool) {
	for i := range t.Areas {
		for j := range t.Areas[i].Questions {
			if t.Areas[i].Questions[j].ID == id {
				return &t.Areas[i].Questions[j], true
			}
		}
	}
	return nil, false
}
