package doctype

import "strings"

// ApplyOverrides folds override records onto a descriptor and returns the
// normalized copy. Records apply in the order received; the last write for a
// given (target, property) pair wins. Records naming a field the descriptor
// does not carry are dropped. The input descriptor is never mutated.
func ApplyOverrides(d Descriptor, overrides []OverrideRecord) Descriptor {
	out := d.Clone()
	for _, record := range overrides {
		value := CoerceValue(record.Value, record.ValueKind)
		if strings.TrimSpace(record.Field) == "" {
			applyDescriptorProperty(&out, record.Property, value, record.Value)
			continue
		}
		if field := out.Field(record.Field); field != nil {
			applyFieldProperty(field, record.Property, value, record.Value)
		}
	}
	return out
}

func applyDescriptorProperty(d *Descriptor, property string, value any, raw string) {
	switch property {
	case "title_field":
		d.TitleField = stringValue(value, raw)
	case "sort_field":
		d.SortField = stringValue(value, raw)
	case "sort_order":
		d.SortOrder = stringValue(value, raw)
	case "is_submittable":
		d.Submittable = Truthy(value)
	case "istable":
		d.ChildTable = Truthy(value)
	case "module":
		d.Module = stringValue(value, raw)
	}
	// Unknown top-level properties fall through untouched; the descriptor
	// carries more attributes server-side than this pipeline consumes.
}

func applyFieldProperty(f *Field, property string, value any, raw string) {
	switch property {
	case "label":
		f.Label = stringValue(value, raw)
	case "fieldtype":
		f.Kind = FieldKind(stringValue(value, raw))
	case "options":
		f.Options = stringValue(value, raw)
	case "default":
		f.Default = stringValue(value, raw)
	case "reqd":
		f.Required = Truthy(value)
	case "hidden":
		f.Hidden = Truthy(value)
	case "read_only":
		f.ReadOnly = Truthy(value)
	case "in_list_view":
		f.InListView = Truthy(value)
	case "in_standard_filter":
		f.InStandardFilter = Truthy(value)
	case "depends_on":
		f.VisibleIf = stringValue(value, raw)
	case "mandatory_depends_on":
		f.MandatoryIf = stringValue(value, raw)
	}
}

func stringValue(value any, raw string) string {
	if s, ok := value.(string); ok {
		return s
	}
	return raw
}
