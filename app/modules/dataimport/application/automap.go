package importservice

import (
	"strings"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// AutoMap proposes a mapping from each source column to a target field
// of the given schema. It is pure and deterministic: the same headers
// always yield the same mappings.
//
// Per header, first hit wins:
//  1. exact match on the normalized header against every normalized
//     schema field name
//  2. alias table lookup on the normalized header
//  3. longest schema field whose normalized name is a substring of the
//     normalized header (longest wins, so specific fields beat generic
//     ones)
//  4. unmapped
func AutoMap(headers []string, schema *SchemaDescriptor) []importtypes.FieldMapping {
	mappings := make([]importtypes.FieldMapping, 0, len(headers))
	for _, header := range headers {
		mappings = append(mappings, mapHeader(header, schema))
	}
	return mappings
}

func mapHeader(header string, schema *SchemaDescriptor) importtypes.FieldMapping {
	norm := NormalizeHeader(header)

	if field, ok := schema.byNormalized[norm]; ok {
		return mapped(header, field)
	}

	if field, ok := schema.Aliases[norm]; ok {
		return mapped(header, field)
	}

	if field := longestSubstringField(norm, schema); field != "" {
		return mapped(header, field)
	}

	return importtypes.FieldMapping{
		SourceColumn: header,
		Status:       importtypes.MappingUnmapped,
	}
}

// longestSubstringField returns the schema field with the longest
// normalized name contained in norm, or "" when none matches.
func longestSubstringField(norm string, schema *SchemaDescriptor) string {
	if norm == "" {
		return ""
	}
	best := ""
	bestLen := 0
	for _, field := range schema.Fields {
		fieldNorm := NormalizeHeader(field)
		if fieldNorm == "" || !strings.Contains(norm, fieldNorm) {
			continue
		}
		if len(fieldNorm) > bestLen {
			best = field
			bestLen = len(fieldNorm)
		}
	}
	return best
}

func mapped(header, field string) importtypes.FieldMapping {
	return importtypes.FieldMapping{
		SourceColumn: header,
		TargetField:  field,
		Status:       importtypes.MappingMapped,
	}
}
