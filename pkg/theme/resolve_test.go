package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDoc() *ThemeDocument {
	return &ThemeDocument{
		Metadata: Metadata{Name: "base"},
		AutoDetection: RuleMap{
			"urls": RuleEntry{Rule: &AutoDetectionRule{
				Pattern:         `https?://\S+`,
				StyleAttributes: StyleAttributes{Color: "royal"},
			}},
		},
		Filters: map[string]FilterEntry{
			"todo": {Filter: &FilterDocument{
				IconMappings: IconMap{
					"critical": IconEntry{Icon: &IconMapping{
						Icon:            "🔥",
						StyleAttributes: StyleAttributes{Color: "crimson"},
					}},
				},
				Styles: StyleMap{
					"tasks": StyleEntry{Style: &KeywordStyle{
						Keywords:        []string{"task"},
						StyleAttributes: StyleAttributes{Color: "yellow"},
					}},
				},
			}},
			"logs": {Filter: &FilterDocument{
				Styles: StyleMap{
					"levels": StyleEntry{Style: &KeywordStyle{
						Keywords:        []string{"ERROR", "WARN"},
						StyleAttributes: StyleAttributes{Color: "red"},
					}},
				},
			}},
		},
	}
}

func TestResolveCarryThrough(t *testing.T) {
	override := &ThemeDocument{Metadata: Metadata{Name: "user"}}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	assert.Equal(t, "user", result.Metadata.Name)
	assert.Contains(t, result.AutoDetection, "urls")
	assert.Contains(t, result.Filters, "todo")
	assert.Contains(t, result.Filters, "logs")
}

func TestResolveDisable(t *testing.T) {
	override := &ThemeDocument{
		Filters: map[string]FilterEntry{
			"todo": {Filter: &FilterDocument{
				IconMappings: IconMap{
					"critical": IconEntry{Disabled: true},
				},
			}},
		},
	}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	// The inherited mapping is removed, not merely shadowed.
	assert.NotContains(t, result.Filters["todo"].Filter.IconMappings, "critical")
	// Other sections of the same filter are untouched.
	assert.Contains(t, result.Filters["todo"].Filter.Styles, "tasks")
	// Other filters are untouched.
	assert.Contains(t, result.Filters["logs"].Filter.Styles, "levels")
}

func TestResolveReplaceWholesale(t *testing.T) {
	override := &ThemeDocument{
		Filters: map[string]FilterEntry{
			"todo": {Filter: &FilterDocument{
				IconMappings: IconMap{
					"critical": IconEntry{Icon: &IconMapping{
						Icon: "❗",
						// No color: replacement is wholesale, the base
						// entry's crimson must not leak through.
					}},
				},
			}},
		},
	}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	icon := result.Filters["todo"].Filter.IconMappings["critical"].Icon
	require.NotNil(t, icon)
	assert.Equal(t, "❗", icon.Icon)
	assert.Empty(t, icon.Color)
}

func TestResolveAdd(t *testing.T) {
	override := &ThemeDocument{
		Filters: map[string]FilterEntry{
			"todo": {Filter: &FilterDocument{
				Styles: StyleMap{
					"notes": StyleEntry{Style: &KeywordStyle{
						Keywords:        []string{"note"},
						StyleAttributes: StyleAttributes{Color: "azure"},
					}},
				},
			}},
			"git": {Filter: &FilterDocument{
				Styles: StyleMap{
					"actions": StyleEntry{Style: &KeywordStyle{
						Keywords:        []string{"merged"},
						StyleAttributes: StyleAttributes{Color: "purple"},
					}},
				},
			}},
		},
	}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	assert.Contains(t, result.Filters["todo"].Filter.Styles, "notes")
	assert.Contains(t, result.Filters["todo"].Filter.Styles, "tasks")
	assert.Contains(t, result.Filters, "git")
}

func TestResolveDisableWholeFilter(t *testing.T) {
	override := &ThemeDocument{
		Filters: map[string]FilterEntry{
			"logs": {Disabled: true},
		},
	}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	assert.NotContains(t, result.Filters, "logs")
	assert.Contains(t, result.Filters, "todo")
}

func TestResolveDisableAutoDetection(t *testing.T) {
	override := &ThemeDocument{
		AutoDetection: RuleMap{
			"urls": RuleEntry{Disabled: true},
		},
	}

	result, err := Resolve(baseDoc(), override)
	require.NoError(t, err)

	assert.NotContains(t, result.AutoDetection, "urls")
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	base := baseDoc()
	override := &ThemeDocument{
		Filters: map[string]FilterEntry{
			"todo": {Filter: &FilterDocument{
				IconMappings: IconMap{"critical": IconEntry{Disabled: true}},
			}},
		},
	}

	_, err := Resolve(base, override)
	require.NoError(t, err)

	assert.Contains(t, base.Filters["todo"].Filter.IconMappings, "critical")
}

func TestResolveInheritanceFromFileDefaults(t *testing.T) {
	// A theme file carrying a defaults section resolves on parse.
	doc, err := Parse([]byte(`
metadata:
  name: custom
defaults:
  filters:
    todo:
      icon_mappings:
        critical:
          icon: "🔥"
          color: crimson
        blocked:
          icon: "🚫"
          color: red
      styles:
        tasks:
          keywords: ["task"]
          color: yellow
filters:
  todo:
    icon_mappings:
      blocked: disabled
      critical:
        icon: "❗"
        color: amber
`))
	require.NoError(t, err)

	filter := doc.Filters["todo"].Filter
	assert.NotContains(t, filter.IconMappings, "blocked")
	assert.Equal(t, "❗", filter.IconMappings["critical"].Icon.Icon)
	assert.Equal(t, "amber", filter.IconMappings["critical"].Icon.Color)
	assert.Contains(t, filter.Styles, "tasks")
	assert.Nil(t, doc.Defaults)
}
