package navigation

// IconKind tags the glyph family a server icon key resolves to.
type IconKind int

const (
	IconDefault IconKind = iota
	IconPeople
	IconCalendar
	IconMoney
	IconBox
	IconChart
	IconSettings
	IconFolder
)

// Icons resolves server-provided icon keys to glyphs at render time.
type Icons struct {
	kinds  map[string]IconKind
	glyphs map[IconKind]string
}

// DefaultIcons knows the keys the back office ships with.
func DefaultIcons() Icons {
	return Icons{
		kinds: map[string]IconKind{
			"people":    IconPeople,
			"users":     IconPeople,
			"employees": IconPeople,
			"calendar":  IconCalendar,
			"leaves":    IconCalendar,
			"money":     IconMoney,
			"payroll":   IconMoney,
			"invoice":   IconMoney,
			"box":       IconBox,
			"inventory": IconBox,
			"chart":     IconChart,
			"reports":   IconChart,
			"settings":  IconSettings,
			"folder":    IconFolder,
		},
		glyphs: map[IconKind]string{
			IconDefault:  "•",
			IconPeople:   "👥",
			IconCalendar: "📅",
			IconMoney:    "💰",
			IconBox:      "📦",
			IconChart:    "📊",
			IconSettings: "⚙",
			IconFolder:   "📁",
		},
	}
}

// Kind returns the tag for key; unknown keys map to IconDefault.
func (i Icons) Kind(key string) IconKind {
	if k, ok := i.kinds[key]; ok {
		return k
	}
	return IconDefault
}

// Glyph renders key.
func (i Icons) Glyph(key string) string {
	if g, ok := i.glyphs[i.Kind(key)]; ok {
		return g
	}
	return i.glyphs[IconDefault]
}
