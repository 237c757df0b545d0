package components

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Size selects one of the three indicator sizes.
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
)

var sizeClasses = map[Size]string{
	SizeSmall:  "h-4 w-4",
	SizeMedium: "h-8 w-8",
	SizeLarge:  "h-16 w-16",
}

// LoadingIndicator renders a centred pulsing dot. The caption is rendered only when text is set.
// Unknown sizes fall back to medium.
func LoadingIndicator(size Size, text string) g.Node {
	class, ok := sizeClasses[size]
	if !ok {
		size, class = SizeMedium, sizeClasses[SizeMedium]
	}

	return h.Div(
		h.Class("loading-indicator flex flex-col items-center justify-center gap-3"),
		g.Attr("role", "status"),
		g.Attr("data-size", string(size)),
		h.Div(
			h.Class("loading-dot animate-pulse rounded-full bg-indigo-500 "+class),
			g.Attr("aria-hidden", "true"),
		),
		g.If(text != "", h.P(h.Class("loading-caption text-sm text-gray-500"), g.Text(text))),
	)
}
