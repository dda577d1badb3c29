package semantic

// TriviaConfig lists the sibling kinds folded into a declaration's start
// line. Always kinds (attributes, annotations) are included regardless of
// gaps; Adjacent kinds (comments) only while they touch the current start.
type TriviaConfig struct {
	Always   map[string]bool
	Adjacent map[string]bool
}

func kinds(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

var triviaConfigs = map[Language]TriviaConfig{
	LangRust: {
		Always:   kinds("attribute_item"),
		Adjacent: kinds("line_comment", "block_comment"),
	},
	LangPython: {
		Adjacent: kinds("comment"),
	},
	LangJava: {
		Always:   kinds("marker_annotation", "annotation"),
		Adjacent: kinds("line_comment", "block_comment"),
	},
	LangKotlin: {
		Always:   kinds("annotation"),
		Adjacent: kinds("line_comment", "multiline_comment", "comment"),
	},
	LangHCL: {
		Adjacent: kinds("comment"),
	},
	LangYAML: {
		Adjacent: kinds("comment"),
	},
	LangGo: {
		Adjacent: kinds("comment"),
	},
}

// expandStart returns the start line of n after folding in its leading
// trivia. Siblings are scanned in reverse; anonymous tokens are skipped and
// the first sibling that is neither trivia nor adjacent ends the scan.
func expandStart(lang Language, n Node) int {
	return expandStartWithin(lang, n)
}

// expandStartWithin is expandStart for a node whose leading trivia may sit
// outside its parent. When every sibling before n is trivia, the scan goes
// on through the siblings before each of outer, innermost first. Grammars
// such as HCL and YAML attach a comment above the first block to the root
// rather than to the block's body.
func expandStartWithin(lang Language, n Node, outer ...Node) int {
	start := n.StartLine()
	cfg, ok := triviaConfigs[lang]
	if !ok {
		return start
	}

	start, open := scanTrivia(cfg, start, n.PrevSibling())
	for _, o := range outer {
		if !open || o == nil {
			break
		}
		start, open = scanTrivia(cfg, start, o.PrevSibling())
	}
	return start
}

// scanTrivia folds trivia siblings from prev backwards into start. open
// reports whether the scan ran out of siblings without being stopped.
func scanTrivia(cfg TriviaConfig, start int, prev Node) (int, bool) {
	for ; prev != nil; prev = prev.PrevSibling() {
		if !prev.IsNamed() {
			continue
		}
		kind := prev.Kind()
		switch {
		case cfg.Always[kind]:
			start = min(start, prev.StartLine())
		case cfg.Adjacent[kind]:
			if start-prev.EndLine() > 1 {
				return start, false
			}
			start = min(start, prev.StartLine())
		default:
			return start, false
		}
	}
	return start, true
}

// span returns the inclusive line span of n with trivia folded in.
func span(lang Language, n Node, outer ...Node) (start, end int) {
	return expandStartWithin(lang, n, outer...), n.EndLine()
}
