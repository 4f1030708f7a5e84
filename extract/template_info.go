package extract

import "path/filepath"

// TemplateVariable names a field available to a prompt template.
type TemplateVariable struct {
	Name string
	Type string
}

// TemplateInfo documents a bundled prompt template.
type TemplateInfo struct {
	Name      string
	Variables []TemplateVariable
}

// DefaultTemplateInfo lists the bundled prompt templates and their variables.
func DefaultTemplateInfo() []TemplateInfo {
	return []TemplateInfo{
		{
			Name: ExtractTemplateName,
			Variables: []TemplateVariable{
				{Name: "Today", Type: "string"},
				{Name: "Request", Type: "string"},
			},
		},
		{
			Name: DedupeTemplateName,
			Variables: []TemplateVariable{
				{Name: "Tasks", Type: "string"},
			},
		},
		{
			Name: PolishTemplateName,
			Variables: []TemplateVariable{
				{Name: "Result", Type: "string"},
				{Name: "Request", Type: "string"},
			},
		},
	}
}

// OverridePath returns where an override for name would be read from, or ""
// when no override directory is configured.
func (p Prompts) OverridePath(name string) string {
	if p.OverrideDir == "" {
		return ""
	}
	return filepath.Join(p.OverrideDir, name)
}
