package database

import (
	"bizdiag_backend/internal/model"
	"log"

	"gorm.io/gorm"
)

const DefaultTemplateSlug = "integral-business-diagnostic"

type seedQuestion struct {
	prompt string
	kind   model.QuestionType
	weight float64
}

type seedArea struct {
	name        string
	description string
	questions   []seedQuestion
}

var defaultAreas = []seedArea{
	{
		name:        "Business Management",
		description: "Planning, organization and decision making",
		questions: []seedQuestion{
			{"Do you have a written business plan with measurable goals?", model.QuestionScored, 1},
			{"How often do you review progress against those goals?", model.QuestionScored, 1},
			{"Are the key processes of the business documented?", model.QuestionScored, 1},
			{"What is the biggest management challenge you face today?", model.QuestionFreeText, 0},
		},
	},
	{
		name:        "Finance",
		description: "Budgeting, cost control and cash flow",
		questions: []seedQuestion{
			{"Do you keep a daily record of income and expenses?", model.QuestionScored, 1},
			{"Are business and personal finances kept separate?", model.QuestionScored, 1},
			{"Do you know your break-even point?", model.QuestionScored, 1.5},
		},
	},
	{
		name:        "Marketing and Sales",
		description: "Value proposition, customers and sales channels",
		questions: []seedQuestion{
			{"Is your value proposition clearly defined?", model.QuestionScored, 1},
			{"Do you know the profile of your ideal customer?", model.QuestionScored, 1},
			{"Do you measure the return of your marketing actions?", model.QuestionScored, 1},
		},
	},
	{
		name:        "Operations",
		description: "Processes, quality and productivity",
		questions: []seedQuestion{
			{"Are quality standards defined for your products or services?", model.QuestionScored, 1},
			{"Do you control inventory on a regular basis?", model.QuestionScored, 1},
			{"Have you automated any repetitive task?", model.QuestionScored, 1},
		},
	},
	{
		name:        "Human Resources",
		description: "Roles, onboarding and team development",
		questions: []seedQuestion{
			{"Are roles and responsibilities defined for every team member?", model.QuestionScored, 1},
			{"Is there an onboarding process for new hires?", model.QuestionScored, 1},
			{"Do you evaluate team performance periodically?", model.QuestionScored, 1},
		},
	},
}

var defaultContent = []model.ContentItem{
	{Title: "Business planning fundamentals", ShortDescription: "Build a simple business plan with clear goals", Description: "Strategy, planning and leadership basics for small business owners.", Difficulty: model.DifficultyBeginner, DurationHours: 4},
	{Title: "KPIs for management", ShortDescription: "Measure what matters in your business", Description: "Management indicators and decision making.", Difficulty: model.DifficultyIntermediate, DurationHours: 6},
	{Title: "Basic finance for entrepreneurs", ShortDescription: "Budget, costs and cash flow", Description: "Bookkeeping and financial control for a small business.", Difficulty: model.DifficultyBeginner, DurationHours: 5},
	{Title: "Financial projections", ShortDescription: "Quarterly projections and profitability analysis", Description: "Advanced finance: break-even, margins and budgeting.", Difficulty: model.DifficultyAdvanced, DurationHours: 8},
	{Title: "Digital marketing starter", ShortDescription: "Social media and digital presence", Description: "Marketing and sales on a small budget.", Difficulty: model.DifficultyBeginner, DurationHours: 3},
	{Title: "Sales funnels", ShortDescription: "Design a funnel and measure conversions", Description: "Advertising, sales and conversion tracking.", Difficulty: model.DifficultyIntermediate, DurationHours: 5},
	{Title: "Process improvement", ShortDescription: "Continuous improvement of operations", Description: "Processes, quality and productivity techniques.", Difficulty: model.DifficultyIntermediate, DurationHours: 6},
	{Title: "Team leadership", ShortDescription: "Lead and develop your team", Description: "Human resources, talent and training for small teams.", Difficulty: model.DifficultyBeginner, DurationHours: 4},
	{Title: "Growing your business", ShortDescription: "Next steps for a growing company", Description: "General guidance for any business.", Difficulty: model.DifficultyBeginner, DurationHours: 2},
}

// Seed inserts the default template and a starter content catalog when the
// tables are empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DiagnosticTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(DefaultTemplate()).Error; err != nil {
			return err
		}
		log.Println("Default diagnostic template created")
	}

	var contentCount int64
	if err := db.Model(&model.ContentItem{}).Count(&contentCount).Error; err != nil {
		return err
	}
	if contentCount == 0 {
		items := make([]model.ContentItem, len(defaultContent))
		copy(items, defaultContent)
		for i := range items {
			items[i].Status = model.ContentPublished
		}
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// DefaultTemplate builds the five-area template with equal weights.
func DefaultTemplate() *model.DiagnosticTemplate {
	tpl := &model.DiagnosticTemplate{
		Name:             "Integral Business Diagnostic",
		Slug:             DefaultTemplateSlug,
		Description:      "Evaluates the five core areas of a small business",
		EstimatedMinutes: 20,
		IsActive:         true,
	}
	for i, a := range defaultAreas {
		area := model.DiagnosticArea{
			Name:        a.name,
			Description: a.description,
			Weight:      20,
			Order:       i + 1,
		}
		for j, q := range a.questions {
			area.Questions = append(area.Questions, model.DiagnosticQuestion{
				Prompt:   q.prompt,
				Type:     q.kind,
				Weight:   q.weight,
				ScaleMin: 0,
				ScaleMax: 5,
				MinLabel: "Not at all",
				MaxLabel: "Fully",
				Required: q.kind == model.QuestionScored,
				Order:    j + 1,
			})
		}
		tpl.Areas = append(tpl.Areas, area)
	}
	return tpl
}
