package regex

import "strings"

// Render renders r as a regex string over the relevance label names in
// names, indexed by the rel_id values a Value leaf carries. Chain and
// Alternative sub-expressions are parenthesized wherever ambiguity would
// otherwise result from direct concatenation.
func Render(r Regex, names []string) string {
	if r == nil {
		return ""
	}
	return render(r, names)
}

func render(r Regex, names []string) string {
	switch v := r.(type) {
	case Value:
		parts := make([]string, len(v.Rel))
		for i, id := range v.Rel {
			if id >= 0 && id < len(names) {
				parts[i] = names[id]
			}
		}
		return strings.Join(parts, "")

	case Chain:
		var sb strings.Builder
		for _, it := range v.Items {
			sb.WriteString(atom(it, names))
		}
		return sb.String()

	case Alternative:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = render(it, names)
		}
		return strings.Join(parts, "|")

	case Optional:
		return atom(v.Item, names) + "?"

	case ZeroMore:
		return atom(v.Item, names) + "*"
	}
	return ""
}

// atom wraps r in parens if embedding it directly as a sub-expression
// would otherwise be ambiguous.
func atom(r Regex, names []string) string {
	s := render(r, names)
	switch v := r.(type) {
	case Chain:
		if len(v.Items) > 1 {
			return "(" + s + ")"
		}
	case Alternative:
		if len(v.Items) > 1 {
			return "(" + s + ")"
		}
	}
	return s
}
