/*
Package dsl builds form content in Go instead of YAML or JSON.

	b := dsl.New()
	b.Checkbox("b").Label("Hide a?")
	b.Text("a").
		Label("A").
		Hide("value.b == true").
		Remove().
		Validators("required")
	b.Group("address", func(g *dsl.Builder) {
		g.Text("street")
		g.Select("country", "PT", "BR")
	}).Title("Address").ValueStrategy(domain.ValueReset)

	content := b.Build() // pass to formwork.New

The result can also be served as a ports.ContentLoader:

	loader, err := b.Loader("signup")
*/
package dsl
