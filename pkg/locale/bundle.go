package locale

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goodsign/monday"
)

// AppText holds the labels owned by the shell itself.
type AppText struct {
	GraphicalEditor    string `json:"graphicalEditor"`
	CodeEditor         string `json:"codeEditor"`
	PreviewMap         string `json:"previewMap"`
	Language           string `json:"language"`
	Compact            string `json:"compact"`
	Examples           string `json:"examples"`
	SymbolizerRenderer string `json:"symbolizerRenderer"`
}

// EditorText holds the labels of the embedded editor widgets
// (loaders, rule table, code editor, examples dialog, preview).
type EditorText struct {
	LoadStyle        string `json:"loadStyle"`
	LoadData         string `json:"loadData"`
	RuleName         string `json:"ruleName"`
	Symbolizers      string `json:"symbolizers"`
	Filter           string `json:"filter"`
	Scale            string `json:"scale"`
	AddRule          string `json:"addRule"`
	RemoveRule       string `json:"removeRule"`
	CopyToClipboard  string `json:"copyToClipboard"`
	Save             string `json:"save"`
	ExamplesTitle    string `json:"examplesTitle"`
	Ok               string `json:"ok"`
	Cancel           string `json:"cancel"`
	Dataset          string `json:"dataset"`
	NoDataset        string `json:"noDataset"`
	Features         string `json:"features"`
	Attributes       string `json:"attributes"`
	MissingAttribute string `json:"missingAttribute"`
	InvalidAttribute string `json:"invalidAttribute"`
	LastChanged      string `json:"lastChanged"`
}

// Bundle is the complete set of UI strings for one language.
type Bundle struct {
	Language   string        `json:"language"`
	DateLocale monday.Locale `json:"dateLocale"`
	App        AppText       `json:"app"`
	Editor     EditorText    `json:"editor"`
}

// Validate reports every empty string field of the bundle.
func (b *Bundle) Validate() error {
	if b == nil {
		return fmt.Errorf("nil bundle")
	}
	var missing []string
	collectEmpty(reflect.ValueOf(*b), "", &missing)
	if len(missing) > 0 {
		return fmt.Errorf("bundle %q is missing keys: %s", b.Language, strings.Join(missing, ", "))
	}
	return nil
}

func collectEmpty(v reflect.Value, prefix string, missing *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		name := prefix + t.Field(i).Name
		switch field.Kind() {
		case reflect.Struct:
			collectEmpty(field, name+".", missing)
		case reflect.String:
			if field.String() == "" {
				*missing = append(*missing, name)
			}
		}
	}
}
