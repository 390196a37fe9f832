package render

import (
	"embed"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	models "quizdash/internal/domain/models/report"
)

//go:embed config/catalog.yaml
var configFiles embed.FS

// PerformanceBand maps a minimum percentage to a label
type PerformanceBand struct {
	MinPercentage float64 `yaml:"min_percentage"`
	Label         string  `yaml:"label"`
}

type catalogFile struct {
	DateLayout       string                      `yaml:"date_layout"`
	TimeLayout       string                      `yaml:"time_layout"`
	PerformanceBands []PerformanceBand           `yaml:"performance_bands"`
	Variables        []models.VariableDefinition `yaml:"variables"`
}

// Catalog knows which placeholders exist and how to compute their values
type Catalog struct {
	dateLayout string
	timeLayout string
	bands      []PerformanceBand
	variables  []models.VariableDefinition
	builtins   map[string]bool
	now        func() time.Time
}

// NewCatalog loads the embedded variable catalog
func NewCatalog() (*Catalog, error) {
	data, err := configFiles.ReadFile("config/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if len(file.Variables) == 0 {
		return nil, fmt.Errorf("catalog defines no variables")
	}
	if file.DateLayout == "" {
		file.DateLayout = "2006-01-02"
	}
	if file.TimeLayout == "" {
		file.TimeLayout = "15:04"
	}

	bands := append([]PerformanceBand(nil), file.PerformanceBands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].MinPercentage > bands[j].MinPercentage })

	builtins := make(map[string]bool, len(file.Variables))
	for _, v := range file.Variables {
		if builtins[v.Name] {
			return nil, fmt.Errorf("variable %q defined twice", v.Name)
		}
		builtins[v.Name] = true
	}

	return &Catalog{
		dateLayout: file.DateLayout,
		timeLayout: file.TimeLayout,
		bands:      bands,
		variables:  file.Variables,
		builtins:   builtins,
		now:        time.Now,
	}, nil
}

// Variables lists the placeholder definitions in catalog order
func (c *Catalog) Variables() []models.VariableDefinition {
	return append([]models.VariableDefinition(nil), c.variables...)
}

// Category returns the performance label for a percentage
func (c *Catalog) Category(percentage float64) string {
	for _, b := range c.bands {
		if percentage >= b.MinPercentage {
			return b.Label
		}
	}
	return ""
}

// Resolve computes the value of every catalog variable for one attempt.
// Extra values are added under their own names but never replace a built-in.
func (c *Catalog) Resolve(rc *models.ReportContext) map[string]string {
	completed := rc.CompletedAt
	if completed.IsZero() {
		completed = c.now()
	}
	pct := rc.Percentage()

	values := map[string]string{
		"student_name":         rc.StudentName,
		"student_email":        rc.StudentEmail,
		"quiz_title":           rc.QuizTitle,
		"score":                formatNumber(rc.Score),
		"max_score":            formatNumber(rc.MaxScore),
		"percentage":           formatNumber(math.Round(pct*10) / 10),
		"correct_answers":      strconv.Itoa(rc.CorrectAnswers),
		"total_questions":      strconv.Itoa(rc.TotalQuestions),
		"performance_category": c.Category(pct),
		"time_taken":           formatDuration(rc.TimeTakenSeconds),
		"date":                 completed.Format(c.dateLayout),
		"time":                 completed.Format(c.timeLayout),
	}

	for name, v := range rc.Extra {
		if c.builtins[name] {
			continue
		}
		values[name] = v
	}
	return values
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
