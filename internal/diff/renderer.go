package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Renderer formats a Diff for a particular output surface.
type Renderer interface {
	Render(w io.Writer, d *Diff, options *RenderOptions) error
}

// RenderOptions configures how the diff is rendered.
type RenderOptions struct {
	ShowUnchanged bool
}

// TextRenderer renders the diff as plain text for terminal output.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, d *Diff, options *RenderOptions) error {
	opts := options
	if opts == nil {
		opts = &RenderOptions{}
	}

	fmt.Fprintf(w, "Registration Diff\n")
	fmt.Fprintf(w, "══════════════════════════════════════════════════════════\n\n")

	if len(d.Added) > 0 {
		fmt.Fprintf(w, "Create (%d):\n", len(d.Added))
		for _, c := range d.Added {
			fmt.Fprintf(w, "+ %s  %s  retry=%s\n", c.Name, c.NewCronExpression, c.NewRetryDelay)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(d.Removed) > 0 {
		fmt.Fprintf(w, "Delete (%d):\n", len(d.Removed))
		for _, c := range d.Removed {
			fmt.Fprintf(w, "- %s  %s  retry=%s\n", c.Name, c.OldCronExpression, c.OldRetryDelay)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(d.Modified) > 0 {
		fmt.Fprintf(w, "Modify (%d):\n", len(d.Modified))
		for _, c := range d.Modified {
			fmt.Fprintf(w, "~ %s  (fields changed: %s)\n", c.Name, strings.Join(c.FieldsChanged, ", "))
			for _, f := range c.FieldsChanged {
				switch f {
				case "cron_expression":
					fmt.Fprintf(w, "    old: %s\n    new: %s\n", c.OldCronExpression, c.NewCronExpression)
				case "retry_delay":
					fmt.Fprintf(w, "    old retry: %s\n    new retry: %s\n", c.OldRetryDelay, c.NewRetryDelay)
				}
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if opts.ShowUnchanged && len(d.Unchanged) > 0 {
		fmt.Fprintf(w, "Keep unchanged (%d):\n", len(d.Unchanged))
		for _, c := range d.Unchanged {
			fmt.Fprintf(w, "  %s  %s\n", c.Name, c.NewCronExpression)
		}
		fmt.Fprintf(w, "\n")
	}

	total := len(d.Added) + len(d.Removed) + len(d.Modified)
	if total == 0 {
		fmt.Fprintf(w, "No changes detected.\n")
	} else {
		fmt.Fprintf(w, "Summary: %d created, %d deleted, %d modified\n",
			len(d.Added), len(d.Removed), len(d.Modified))
	}

	return nil
}

// JSONRenderer renders the diff as machine-readable JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, d *Diff, options *RenderOptions) error {
	opts := options
	if opts == nil {
		opts = &RenderOptions{}
	}

	type changeJSON struct {
		Name              string   `json:"name"`
		OldCronExpression string   `json:"oldCronExpression,omitempty"`
		NewCronExpression string   `json:"newCronExpression,omitempty"`
		OldRetryDelay     string   `json:"oldRetryDelay,omitempty"`
		NewRetryDelay     string   `json:"newRetryDelay,omitempty"`
		FieldsChanged     []string `json:"fieldsChanged,omitempty"`
	}

	toJSON := func(changes []Change) []changeJSON {
		out := make([]changeJSON, 0, len(changes))
		for _, c := range changes {
			out = append(out, changeJSON{
				Name:              c.Name,
				OldCronExpression: c.OldCronExpression,
				NewCronExpression: c.NewCronExpression,
				OldRetryDelay:     c.OldRetryDelay.String(),
				NewRetryDelay:     c.NewRetryDelay.String(),
				FieldsChanged:     c.FieldsChanged,
			})
		}
		return out
	}

	result := struct {
		Created   []changeJSON   `json:"created"`
		Deleted   []changeJSON   `json:"deleted"`
		Modified  []changeJSON   `json:"modified"`
		Unchanged []changeJSON   `json:"unchanged,omitempty"`
		Summary   map[string]int `json:"summary"`
	}{
		Created:  toJSON(d.Added),
		Deleted:  toJSON(d.Removed),
		Modified: toJSON(d.Modified),
		Summary: map[string]int{
			"created":  len(d.Added),
			"deleted":  len(d.Removed),
			"modified": len(d.Modified),
		},
	}
	if opts.ShowUnchanged {
		result.Unchanged = toJSON(d.Unchanged)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// NewRenderer creates a renderer for the given output format name.
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return &TextRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json)", format)
	}
}
