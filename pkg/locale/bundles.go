package locale

import (
	"github.com/goodsign/monday"
)

// Supported language tags, in settings-bar order.
const (
	English = "en"
	German  = "de"
	Spanish = "es"
)

// DefaultLanguage is used for unknown or malformed tags.
const DefaultLanguage = English

var en = Bundle{
	Language:   English,
	DateLocale: monday.LocaleEnUS,
	App: AppText{
		GraphicalEditor:    "Graphical Editor",
		CodeEditor:         "Code Editor",
		PreviewMap:         "Preview Map",
		Language:           "Language",
		Compact:            "Compact",
		Examples:           "Examples",
		SymbolizerRenderer: "Symbolizer Renderer",
	},
	Editor: EditorText{
		LoadStyle:        "Load Style",
		LoadData:         "Load Data",
		RuleName:         "Name",
		Symbolizers:      "Symbolizers",
		Filter:           "Filter",
		Scale:            "Scale",
		AddRule:          "Add Rule",
		RemoveRule:       "Remove Rule",
		CopyToClipboard:  "Copy to Clipboard",
		Save:             "Save",
		ExamplesTitle:    "Choose an example style",
		Ok:               "OK",
		Cancel:           "Cancel",
		Dataset:          "Dataset",
		NoDataset:        "No data loaded",
		Features:         "Features",
		Attributes:       "Attributes",
		MissingAttribute: "attribute not in dataset",
		InvalidAttribute: "Invalid attributes",
		LastChanged:      "Last changed",
	},
}

var de = Bundle{
	Language:   German,
	DateLocale: monday.LocaleDeDE,
	App: AppText{
		GraphicalEditor:    "Grafischer Editor",
		CodeEditor:         "Code Editor",
		PreviewMap:         "Vorschau Karte",
		Language:           "Sprache",
		Compact:            "Kompakt",
		Examples:           "Beispiele",
		SymbolizerRenderer: "Symbolisierer-Darstellung",
	},
	Editor: EditorText{
		LoadStyle:        "Stil laden",
		LoadData:         "Daten laden",
		RuleName:         "Name",
		Symbolizers:      "Symbolisierer",
		Filter:           "Filter",
		Scale:            "Maßstab",
		AddRule:          "Regel hinzufügen",
		RemoveRule:       "Regel entfernen",
		CopyToClipboard:  "In die Zwischenablage kopieren",
		Save:             "Speichern",
		ExamplesTitle:    "Beispielstil auswählen",
		Ok:               "OK",
		Cancel:           "Abbrechen",
		Dataset:          "Datensatz",
		NoDataset:        "Keine Daten geladen",
		Features:         "Features",
		Attributes:       "Attribute",
		MissingAttribute: "Attribut nicht im Datensatz",
		InvalidAttribute: "Ungültige Attribute",
		LastChanged:      "Zuletzt geändert",
	},
}

var es = Bundle{
	Language:   Spanish,
	DateLocale: monday.LocaleEsES,
	App: AppText{
		GraphicalEditor:    "Editor gráfico",
		CodeEditor:         "Editor de código",
		PreviewMap:         "Mapa de previsualización",
		Language:           "Idioma",
		Compact:            "Compacto",
		Examples:           "Ejemplos",
		SymbolizerRenderer: "Renderizador de simbolizadores",
	},
	Editor: EditorText{
		LoadStyle:        "Cargar estilo",
		LoadData:         "Cargar datos",
		RuleName:         "Nombre",
		Symbolizers:      "Simbolizadores",
		Filter:           "Filtro",
		Scale:            "Escala",
		AddRule:          "Añadir regla",
		RemoveRule:       "Eliminar regla",
		CopyToClipboard:  "Copiar al portapapeles",
		Save:             "Guardar",
		ExamplesTitle:    "Elija un estilo de ejemplo",
		Ok:               "Aceptar",
		Cancel:           "Cancelar",
		Dataset:          "Conjunto de datos",
		NoDataset:        "No hay datos cargados",
		Features:         "Entidades",
		Attributes:       "Atributos",
		MissingAttribute: "atributo ausente en los datos",
		InvalidAttribute: "Atributos no válidos",
		LastChanged:      "Último cambio",
	},
}

// builtin is indexed in the same order as Tags.
var builtin = []*Bundle{&en, &de, &es}

func init() {
	for _, b := range builtin {
		if err := b.Validate(); err != nil {
			panic(err)
		}
	}
}

// Tags returns the supported language tags in display order.
func Tags() []string {
	tags := make([]string, len(builtin))
	for i, b := range builtin {
		tags[i] = b.Language
	}
	return tags
}
