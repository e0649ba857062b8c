package mcpserver

// Argument accessors for validated, defaulted argument maps. Schema
// validation runs before Execute, so a conforming value is present
// whenever the field was required or carried a default; these helpers
// just normalize JSON decoding artifacts (numbers arrive as float64,
// schema defaults keep their native Go type).

// StringArg reads a string argument, or "" if absent.
func StringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// IntArg reads a numeric argument, or 0 if absent.
func IntArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// BoolArg reads a boolean argument, or false if absent.
func BoolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}
