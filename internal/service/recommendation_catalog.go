package service

import (
	"bizdiag_backend/configs"
	"bizdiag_backend/internal/model"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"
)

type LevelSummary struct {
	Message string `mapstructure:"message"`
	Action  string `mapstructure:"action"`
}

type PlanWording struct {
	CriticalAction    string `mapstructure:"critical_action"`
	ImprovableAction  string `mapstructure:"improvable_action"`
	DefaultAction     string `mapstructure:"default_action"`
	MaintenanceArea   string `mapstructure:"maintenance_area"`
	MaintenanceAction string `mapstructure:"maintenance_action"`
}

// RecommendationCatalog is the editable wording and keyword data behind the
// recommendation engine. Area names are looked up case-insensitively.
type RecommendationCatalog struct {
	Keywords         map[string][]string            `mapstructure:"keywords"`
	FallbackKeywords []string                       `mapstructure:"fallback_keywords"`
	Messages         map[string]map[string]string   `mapstructure:"messages"`
	GenericMessage   string                         `mapstructure:"generic_message"`
	StrongMessage    string                         `mapstructure:"strong_message"`
	Actions          map[string]map[string][]string `mapstructure:"actions"`
	GenericActions   []string                       `mapstructure:"generic_actions"`
	Summaries        map[string]LevelSummary        `mapstructure:"summaries"`
	Plan             PlanWording                    `mapstructure:"plan"`
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultRecommendationCatalog parses the catalog embedded in the binary.
func DefaultRecommendationCatalog() (*RecommendationCatalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(configs.DefaultRecommendations)); err != nil {
		return nil, err
	}
	return decodeCatalog(v)
}

// LoadRecommendationCatalog reads the catalog at path, or the embedded default
// when path is empty.
func LoadRecommendationCatalog(path string) (*RecommendationCatalog, error) {
	if path == "" {
		return DefaultRecommendationCatalog()
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read recommendation catalog %s: %w", path, err)
	}
	return decodeCatalog(v)
}

func decodeCatalog(v *viper.Viper) (*RecommendationCatalog, error) {
	var c RecommendationCatalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.normalize()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *RecommendationCatalog) normalize() {
	keywords := make(map[string][]string, len(c.Keywords))
	for k, v := range c.Keywords {
		keywords[normalizeKey(k)] = v
	}
	c.Keywords = keywords

	messages := make(map[string]map[string]string, len(c.Messages))
	for priority, byArea := range c.Messages {
		m := make(map[string]string, len(byArea))
		for area, msg := range byArea {
			m[normalizeKey(area)] = msg
		}
		messages[normalizeKey(priority)] = m
	}
	c.Messages = messages

	actions := make(map[string]map[string][]string, len(c.Actions))
	for area, byPriority := range c.Actions {
		m := make(map[string][]string, len(byPriority))
		for priority, list := range byPriority {
			m[normalizeKey(priority)] = list
		}
		actions[normalizeKey(area)] = m
	}
	c.Actions = actions

	summaries := make(map[string]LevelSummary, len(c.Summaries))
	for level, s := range c.Summaries {
		summaries[normalizeKey(level)] = s
	}
	c.Summaries = summaries
}

func (c *RecommendationCatalog) validate() error {
	switch {
	case len(c.FallbackKeywords) == 0:
		return fmt.Errorf("recommendation catalog: fallback_keywords is empty")
	case len(c.GenericActions) == 0:
		return fmt.Errorf("recommendation catalog: generic_actions is empty")
	case c.GenericMessage == "":
		return fmt.Errorf("recommendation catalog: generic_message is empty")
	case c.Plan.CriticalAction == "" || c.Plan.ImprovableAction == "" || c.Plan.MaintenanceAction == "":
		return fmt.Errorf("recommendation catalog: plan wording is incomplete")
	}
	if _, ok := c.Summaries[string(model.MaturityBasic)]; !ok {
		return fmt.Errorf("recommendation catalog: summaries.basic is required")
	}
	return nil
}

// KeywordsFor returns the search terms of an area, or the fallback terms for
// areas the catalog does not know.
func (c *RecommendationCatalog) KeywordsFor(area string) []string {
	if kw, ok := c.Keywords[normalizeKey(area)]; ok && len(kw) > 0 {
		return kw
	}
	return c.FallbackKeywords
}

func (c *RecommendationCatalog) MessageFor(area string, priority model.Priority, pct float64) string {
	if priority == model.PriorityStrong && c.StrongMessage != "" {
		return c.StrongMessage
	}
	if msg, ok := c.Messages[string(priority)][normalizeKey(area)]; ok && msg != "" {
		return msg
	}
	return strings.ReplaceAll(c.GenericMessage, "{percentage}", formatPercentage(pct))
}

// ActionsFor returns a copy so callers may not alter the catalog.
func (c *RecommendationCatalog) ActionsFor(area string, priority model.Priority) []string {
	list := c.Actions[normalizeKey(area)][string(priority)]
	if len(list) == 0 {
		list = c.GenericActions
	}
	return append([]string(nil), list...)
}

// SummaryFor falls back to the basic summary for unknown levels.
func (c *RecommendationCatalog) SummaryFor(level model.MaturityLevel) LevelSummary {
	if s, ok := c.Summaries[string(level)]; ok {
		return s
	}
	return c.Summaries[string(model.MaturityBasic)]
}

func (c *RecommendationCatalog) PlanAction(priority model.Priority, area string, actions []string) string {
	action := c.Plan.DefaultAction
	if len(actions) > 0 {
		action = actions[0]
	}
	tmpl := c.Plan.ImprovableAction
	if priority == model.PriorityCritical {
		tmpl = c.Plan.CriticalAction
	}
	return strings.NewReplacer("{area}", area, "{action}", action).Replace(tmpl)
}

func formatPercentage(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// CatalogHolder lets the file watcher swap the catalog while requests read it.
type CatalogHolder struct {
	current atomic.Pointer[RecommendationCatalog]
}

func NewCatalogHolder(c *RecommendationCatalog) *CatalogHolder {
	h := &CatalogHolder{}
	h.current.Store(c)
	return h
}

func (h *CatalogHolder) Load() *RecommendationCatalog {
	return h.current.Load()
}

func (h *CatalogHolder) Store(c *RecommendationCatalog) {
	h.current.Store(c)
}

// Reload re-reads path and swaps the catalog only when it parses cleanly.
func (h *CatalogHolder) Reload(path string) error {
	c, err := LoadRecommendationCatalog(path)
	if err != nil {
		return err
	}
	h.Store(c)
	return nil
}
