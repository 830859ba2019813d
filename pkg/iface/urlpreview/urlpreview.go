// Package urlpreview defines the "url-preview" field interface: a URL field
// that can optionally be previewed inline in an iframe while editing.
package urlpreview

import "github.com/faciam-dev/urlpreview/pkg/iface"

// ID is the registry key of the interface.
const ID = "url-preview"

// Option keys.
const (
	FieldURL    = "url"
	FieldView   = "viewiframe"
	FieldWidth  = "widthiframe"
	FieldHeight = "heightiframe"
)

// FrameSrcEnv is the host variable that allow-lists framed domains.
const FrameSrcEnv = "CONTENT_SECURITY_POLICY_DIRECTIVES__FRAME_SRC"

// Component is the renderer handle mounted for the interface.
const Component = iface.NamedComponent("url-preview")

// Definition returns the descriptor of the interface. Every call builds a new
// value, so callers may modify the result freely.
func Definition() iface.Descriptor {
	return iface.Descriptor{
		ID:          ID,
		Name:        "Url Preview",
		Icon:        "iframe",
		Description: "A utility to preview URL content and display it in a fullscreen dialog.",
		Component:   Component,
		Types:       []string{"string"},
		Group:       "presentation",
		Options: []iface.Option{
			{
				Field: FieldURL,
				Name:  "URL",
				Type:  "string",
				Meta: iface.OptionMeta{
					Width:     iface.WidthFull,
					Interface: "input",
					Note:      "Paste your url view here. external url add enviroment e.g.: " + FrameSrcEnv + "=docs.google.com",
					Options: map[string]any{
						"trim":        true,
						"placeholder": "https://docs.google.com/spreadsheets/d/1ZaVWbudXmgfxsDuCh59PJyPkDyDUlmS_LI1xI5XmgB0/edit",
					},
					Required: true,
				},
			},
			{
				Field: FieldView,
				Name:  "Preview In Edit",
				Type:  "boolean",
				Meta: iface.OptionMeta{
					Width:     iface.WidthFull,
					Interface: "boolean",
					Note:      "Show content url in edit or create mode",
				},
				Schema: &iface.OptionSchema{DefaultValue: false},
			},
			dimension(FieldWidth, "Width", "Iframe width in px or %. Default 100%"),
			dimension(FieldHeight, "Height", "Iframe height in px. Default 600px"),
		},
	}
}

// dimension builds a half-width input shown only while the preview is on.
func dimension(field, name, placeholder string) iface.Option {
	return iface.Option{
		Field: field,
		Name:  name,
		Type:  "string",
		Meta: iface.OptionMeta{
			Width:     iface.WidthHalf,
			Interface: "input",
			Options: map[string]any{
				"trim":        true,
				"placeholder": placeholder,
			},
			Hidden: true,
			Conditions: []iface.Condition{
				{Rule: iface.Eq(FieldView, true), Hidden: false},
			},
		},
	}
}
