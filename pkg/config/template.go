package config

// DefaultTemplate returns the commented configuration written by
// "snoomark init".
func DefaultTemplate() []byte {
	return []byte(`# snoomark configuration
# Renders Reddit-flavored markdown to HTML.

# File extensions treated as markdown.
extensions:
  - .md
  - .markdown

# Glob patterns to skip ("**" matches any number of directories).
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Write rendered files under this directory instead of beside the sources.
# out_dir: public

# Wrap each fragment in a complete HTML page.
document:
  enabled: false
  # title: ""
  # stylesheet: style.css
  lang: en

# Skip re-rendering files whose content has not changed.
cache:
  enabled: false
  # path: ""
`)
}
