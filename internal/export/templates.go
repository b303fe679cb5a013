package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var daySheetTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
	}

	templateContent, err := templateFS.ReadFile("templates/daysheet.html")
	if err != nil {
		// Fallback to built-in template if file not found
		daySheetTemplate = template.Must(template.New("daysheet").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}

	daySheetTemplate = template.Must(template.New("daysheet").Funcs(funcMap).Parse(string(templateContent)))
}

// TemplateData holds data for the day sheet template
type TemplateData struct {
	StoreName   string
	StoreNumber string
	Location    string
	Date        string

	Metrics  []TemplateMetric
	Sections []TemplateSection

	Priorities []string
	Todos      []TemplateChecklistItem
	Checklists []TemplateChecklist
	Schedules  []TemplateSchedule
}

// TemplateMetric is one sales figure on the sheet
type TemplateMetric struct {
	Label string
	Value string
}

// TemplateSection is one free-text block
type TemplateSection struct {
	Title string
	Body  string
}

// TemplateChecklist is a named group of checklist items
type TemplateChecklist struct {
	Title string
	Items []TemplateChecklistItem
}

// TemplateChecklistItem is one checkbox line
type TemplateChecklistItem struct {
	Label string
	Done  bool
}

// TemplateSchedule is one staff row in the schedule grid
type TemplateSchedule struct {
	StaffName string
	Slot8To9  string
	Slot9To12 string
	Slot12To4 string
	Slot4To8  string
}

// RenderDaySheetHTML renders the day sheet template with provided data
func RenderDaySheetHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := daySheetTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackTemplate is used if the embedded template fails to load
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.StoreName}} {{.Date}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.5; max-width: 800px; margin: 1rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
  </style>
</head>
<body>
  <h1>{{.StoreName}} ({{.StoreNumber}}) - {{.Date}}</h1>
  {{range .Metrics}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
  {{range .Sections}}<h2>{{.Title}}</h2><p>{{.Body}}</p>{{end}}
</body>
</html>`
