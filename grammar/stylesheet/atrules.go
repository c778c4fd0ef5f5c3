package stylesheet

import (
	"sync"

	"github.com/creachadair/mds/mapset"
)

// atRuleNames is sorted; it doubles as the candidate list for suggestions.
var atRuleNames = []string{
	"charset", "color-profile", "container", "counter-style", "document",
	"font-face", "font-feature-values", "font-palette-values", "import",
	"keyframes", "layer", "media", "namespace", "page", "position-try",
	"property", "scope", "starting-style", "supports", "view-transition",
}

var atRules = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New(atRuleNames...)
})

// nestingAtRules contain rules rather than declarations.
var nestingAtRules = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New("container", "document", "layer", "media", "scope", "starting-style", "supports")
})

// unprefixed strips a vendor prefix such as -webkit-.
func unprefixed(name string) string {
	if len(name) < 2 || name[0] != '-' || name[1] == '-' {
		return name
	}
	for i := 1; i < len(name); i++ {
		if name[i] == '-' {
			return name[i+1:]
		}
	}
	return name
}
