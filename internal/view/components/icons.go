package components

import (
	g "maragu.dev/gomponents"
)

func icon(class, path string) g.Node {
	return g.El("svg",
		g.Attr("xmlns", "http://www.w3.org/2000/svg"),
		g.Attr("viewBox", "0 0 24 24"),
		g.Attr("fill", "none"),
		g.Attr("stroke", "currentColor"),
		g.Attr("stroke-width", "2"),
		g.Attr("aria-hidden", "true"),
		g.Attr("class", class),
		g.El("path", g.Attr("stroke-linecap", "round"), g.Attr("stroke-linejoin", "round"), g.Attr("d", path)),
	)
}

// CheckIcon is the affirmative tick shown on idle confirm buttons.
func CheckIcon() g.Node {
	return icon("icon-check h-4 w-4", "M5 13l4 4L19 7")
}

// SpinnerIcon is the rotating busy marker.
func SpinnerIcon() g.Node {
	return icon("icon-spinner h-4 w-4 animate-spin", "M12 3a9 9 0 1 0 9 9")
}

// PlusIcon marks add affordances.
func PlusIcon() g.Node {
	return icon("icon-plus h-4 w-4", "M12 5v14M5 12h14")
}
