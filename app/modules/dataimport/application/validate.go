package importservice

import importtypes "github.com/cagepicks/cagepicks-backend/types/imports"

// MappingValidation is the validator verdict. MissingFields is
// surfaced verbatim to the user when IsValid is false.
type MappingValidation struct {
	IsValid       bool     `json:"is_valid"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// ValidateMapping checks a proposed or user-edited mapping against the
// schema's minimum-required-fields rule. Pure; does not mutate its
// arguments. The caller blocks progression to the preview phase while
// IsValid is false.
func ValidateMapping(mappings []importtypes.FieldMapping, schema *SchemaDescriptor) MappingValidation {
	mappedFields := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if m.Status == importtypes.MappingMapped && m.TargetField != "" {
			mappedFields[m.TargetField] = true
		}
	}

	var missing []string
	for _, required := range schema.Required {
		if !mappedFields[required] {
			missing = append(missing, required)
		}
	}

	for _, group := range schema.RequiredAny {
		satisfied := false
		for _, field := range group.Fields {
			if mappedFields[field] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, group.Name)
		}
	}

	return MappingValidation{
		IsValid:       len(missing) == 0,
		MissingFields: missing,
	}
}
