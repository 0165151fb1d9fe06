package openai

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the prompts used by the fallback extractor
type PromptConfig struct {
	EntryExtraction struct {
		System       string `yaml:"system"`
		UserTemplate string `yaml:"user_template"`
	} `yaml:"entry_extraction"`
}

const defaultSystemPrompt = `You read short notes written or spoken by a small shopkeeper and turn them into ledger lines.
Respond with a JSON object of the form {"entries":[{"item":"","qty":1,"unit":"","price":0,"type":"cash-in"}]}.
"type" is "cash-in" for sales and money received and "cash-out" for purchases and expenses.
"price" is the price of one unit; use 0 when no price is given. Use an empty list when nothing is sold or bought.`

const defaultUserTemplate = `Currency: {{.Currency}}
Note: {{.Text}}`

// DefaultPrompts returns the built-in prompts
func DefaultPrompts() *PromptConfig {
	p := &PromptConfig{}
	p.EntryExtraction.System = defaultSystemPrompt
	p.EntryExtraction.UserTemplate = defaultUserTemplate
	return p
}

// LoadPrompts reads prompts from a YAML file. Prompts missing from the file keep their defaults.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	prompts := DefaultPrompts()
	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	return prompts, nil
}

// renderTemplate renders a template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
