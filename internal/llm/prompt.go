package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// ComponentSystemPrompt pins the model to the sandbox contract: a single
// code block ending in render(...), no exports, Tailwind-only styling.
const ComponentSystemPrompt = `You are a strict React functional component generator for a live code editor sandbox.

Your output must:
- Define the component as a function (function or const, but do NOT use export default or any export statements)
- End with a call to render(<ComponentName />) (replace ComponentName with the actual component's name)
- Use ONLY Tailwind CSS utility classes for all styling (do NOT use custom CSS, <style> tags, or CSS-in-JS)
- The 'css' field in your output must always be an empty string or a comment like '/* No custom CSS needed, all styling is via Tailwind classes */'
- Output a single JavaScript code block, and nothing else (no explanations, comments, or extra text)
- The code must be ready to run in a sandboxed environment like react-live with noInline={true}
- If the user prompt does not specify a name, use 'GeneratedComponent' as the component name

Example output:
function GeneratedComponent() {
  return (
    <div className="bg-blue-500 text-white p-4 rounded-lg">
      Hello from GeneratedComponent!
    </div>
  );
}
render(<GeneratedComponent />);

Output format:
{
  "jsx": "function GeneratedComponent() {\n  return (\n    <div className=\"bg-blue-500 text-white p-4 rounded-lg\">\n      Hello from GeneratedComponent!\n    </div>\n  );\n}\nrender(<GeneratedComponent />);",
  "css": "/* No custom CSS needed, all styling is via Tailwind classes */"
}`

var (
	renderCallRe = regexp.MustCompile(`render\s*\(`)
	exportRe     = regexp.MustCompile(`export\s+default|export\s+`)
)

// OutputError reports a model response that broke the output contract. It
// carries the raw response for debugging.
type OutputError struct {
	Reason string
	Raw    string
}

func (e *OutputError) Error() string {
	return e.Reason
}

// ParseComponent decodes the model's JSON output into a Component. Both
// fields must be present as strings.
func ParseComponent(raw string) (*Component, error) {
	var out struct {
		JSX *string `json:"jsx"`
		CSS *string `json:"css"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &OutputError{
			Reason: fmt.Sprintf("response is not valid JSON: %v", err),
			Raw:    raw,
		}
	}

	if out.JSX == nil || out.CSS == nil {
		return nil, &OutputError{
			Reason: "response did not contain valid 'jsx' or 'css' strings",
			Raw:    raw,
		}
	}

	return &Component{JSX: *out.JSX, CSS: *out.CSS}, nil
}

// ValidateJSX enforces the sandbox contract on generated code: it must call
// render(...) and must not contain export statements.
func ValidateJSX(jsx string) error {
	if !renderCallRe.MatchString(jsx) || exportRe.MatchString(jsx) {
		return &OutputError{
			Reason: "generated code must end with a render(...) call and must not contain export statements",
			Raw:    jsx,
		}
	}
	return nil
}

// ComponentName extracts the component identifier from a render(<Name />)
// call, falling back to "Component" when none is found.
func ComponentName(jsx string) string {
	m := regexp.MustCompile(`render\s*\(\s*<\s*([A-Za-z_][A-Za-z0-9_]*)`).FindStringSubmatch(jsx)
	if len(m) == 2 {
		return m[1]
	}
	return "Component"
}
