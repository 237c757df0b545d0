package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Login renders the sign-in form, pre-filling email when known.
func Login(email string) g.Node {
	return h.Div(
		h.Class("mx-auto max-w-sm rounded-xl bg-white p-8 shadow"),
		h.H1(h.Class("mb-4 text-2xl font-bold"), g.Text("Sign in")),
		h.Form(
			h.Method("post"),
			h.Action("/auth/login"),
			h.Class("flex flex-col gap-3"),
			h.Input(h.Type("email"), h.Name("email"), h.Placeholder("you@example.com"), h.Value(email), h.Required()),
			h.Input(h.Type("password"), h.Name("password"), h.Placeholder("Password"), h.Required()),
			h.Button(h.Type("submit"), h.Class("rounded-md bg-indigo-600 px-3 py-2 text-white"), g.Text("Sign in")),
		),
	)
}
