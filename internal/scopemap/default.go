package scopemap

// DefaultConfig returns the built-in mapping table. Node-type names
// follow the provider's emission convention (tree-sitter style);
// editing this table never requires touching resolver logic.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Languages: map[string]Language{
			"python": {
				Structure: StructureIndent,
				Scopes: map[string][]string{
					"func":   {"function_definition"},
					"method": {"function_definition"},
					"class":  {"class_definition"},
					"block":  {"block"},
					"sig":    {"function_definition"},
					"body":   {"function_definition", "class_definition"},
					"stmt":   {"statement"},
				},
				LineComments:  []string{"#"},
				BlockComments: [][2]string{{`"""`, `"""`}, {"'''", "'''"}},
			},
			"go": {
				Structure: StructureBrace,
				Scopes: map[string][]string{
					"func":   {"function_declaration", "method_declaration"},
					"method": {"method_declaration"},
					"class":  {"type_declaration"},
					"block":  {"block"},
					"sig":    {"function_declaration", "method_declaration"},
					"body":   {"function_declaration", "method_declaration", "type_declaration"},
					"stmt":   {"statement"},
				},
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
			},
			"javascript": {
				Structure: StructureBrace,
				Scopes: map[string][]string{
					"func":   {"function_declaration", "method_definition"},
					"method": {"method_definition"},
					"class":  {"class_declaration"},
					"block":  {"block"},
					"sig":    {"function_declaration", "method_definition", "class_declaration"},
					"body":   {"function_declaration", "method_definition", "class_declaration"},
					"stmt":   {"statement"},
				},
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
			},
			"typescript": {
				Extends: "javascript",
			},
			"java": {
				Structure: StructureBrace,
				Scopes: map[string][]string{
					"func":   {"method_declaration"},
					"method": {"method_declaration"},
					"class":  {"class_declaration"},
					"block":  {"block"},
					"sig":    {"method_declaration", "class_declaration"},
					"body":   {"method_declaration", "class_declaration"},
					"stmt":   {"statement"},
				},
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
			},
			"c": {
				Structure: StructureBrace,
				Scopes: map[string][]string{
					"func":  {"function_definition"},
					"block": {"block"},
					"sig":   {"function_definition"},
					"body":  {"function_definition"},
					"stmt":  {"statement"},
				},
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
			},
			"cpp": {
				Extends: "c",
				Scopes: map[string][]string{
					"class":  {"class_specifier"},
					"method": {"function_definition"},
				},
			},
			"rust": {
				Structure: StructureBrace,
				Scopes: map[string][]string{
					"func":   {"function_item"},
					"method": {"function_item"},
					"class":  {"struct_item", "impl_item"},
					"block":  {"block"},
					"sig":    {"function_item"},
					"body":   {"function_item", "impl_item"},
					"stmt":   {"statement"},
				},
				LineComments:  []string{"//"},
				BlockComments: [][2]string{{"/*", "*/"}},
			},
			"ruby": {
				LineComments:  []string{"#"},
				BlockComments: [][2]string{{"=begin", "=end"}},
			},
			"shell": {
				LineComments: []string{"#"},
			},
			"yaml": {
				LineComments: []string{"#"},
			},
			"markdown": {
				LineComments: []string{"<!--"},
			},
			"plaintext": {
				LineComments: []string{"#", "//"},
			},
		},
	}
}

// Default returns the resolved built-in table. The built-in config is
// maintained by hand, so a resolution failure here is a programming
// error.
func Default() *Table {
	t, err := FromConfig(DefaultConfig())
	if err != nil {
		panic("scopemap: built-in table invalid: " + err.Error())
	}
	return t
}
