package templates

// Built-in template identifiers.
const (
	Modern        = "modern"
	Classic       = "classic"
	Executive     = "executive"
	ModernSidebar = "modern-sidebar"

	// DefaultTemplate is used for unknown identifiers.
	DefaultTemplate = Modern
)

// standardFonts is shared by every preset except modern.
var standardFonts = FontSizes{Name: 16, SectionHeader: 12, Body: 10, Title: 12}

// BuiltinPresets returns fresh copies of the four built-in presets.
func BuiltinPresets() []StylePreset {
	return []StylePreset{
		{
			Name: Modern,
			Colors: Palette{
				Primary:   MustHex("#2c3e50"),
				Secondary: MustHex("#34495e"),
				Accent:    MustHex("#3498db"),
				Text:      MustHex("#333333"),
				LightGray: MustHex("#f8f9fa"),
			},
			SectionSpacing: 10,
			LineHeight:     5,
			BulletIndent:   5,
			Fonts:          FontSizes{Name: 20, SectionHeader: 14, Body: 10, Title: 12},
		},
		{
			Name: Classic,
			Colors: Palette{
				Primary:   MustHex("#2c3e50"),
				Secondary: MustHex("#34495e"),
				Accent:    MustHex("#95a5a6"),
				Text:      MustHex("#2c3e50"),
				LightGray: MustHex("#ecf0f1"),
			},
			SectionSpacing: 12,
			LineHeight:     5.5,
			BulletIndent:   4,
			HeaderHeight:   35,
			Fonts:          standardFonts,
		},
		{
			Name: Executive,
			Colors: Palette{
				Primary:   MustHex("#1a2a6c"),
				Secondary: MustHex("#b21f1f"),
				Accent:    MustHex("#fdbb2d"),
				Text:      MustHex("#2c3e50"),
				LightGray: MustHex("#f8f9fa"),
			},
			SectionSpacing: 18,
			LineHeight:     6.5,
			BulletIndent:   6,
			HeaderHeight:   45,
			Fonts:          standardFonts,
		},
		{
			Name: ModernSidebar,
			Colors: Palette{
				Primary:   MustHex("#2c3e50"),
				Secondary: MustHex("#34495e"),
				Accent:    MustHex("#3498db"),
				Text:      MustHex("#2c3e50"),
				LightGray: MustHex("#f0f0f0"),
			},
			SectionSpacing: 10,
			LineHeight:     5,
			BulletIndent:   5,
			Fonts:          standardFonts,
			TwoColumn:      true,
			Sidebar: &Sidebar{
				Width:      0.35,
				Background: MustHex("#2c3e50"),
				Text:       MustHex("#ffffff"),
			},
		},
	}
}
