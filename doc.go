/*
Package formwork keeps a declarative form description and a live form model in sync.

A form is described as a tree of content: controls holding a single value and groups holding other nodes. Each node may carry rules (hide, disabled, readonly) written as expressions over the form value. Formwork builds a model for that tree and re-evaluates the rules whenever the value changes, attaching, detaching, disabling and resetting model nodes as their rules dictate.

# Concept

The content is the Logic, the model is the State. Formwork sits between them: the host writes values into the model, the rules observe the value, and the engine mutates the model so its shape always matches what the rules allow. A hidden node with the "remove" strategy drops out of the form value; when it comes back, its value strategy decides whether it returns with its last value, its default or nothing.

# Usage

Describe the content with the dsl package, a loader (file, loam, memory) or by hand, then build a Form:

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/formwork"
		"github.com/aretw0/formwork/pkg/dsl"
	)

	func main() {
		b := dsl.New()
		b.Checkbox("company").Label("Buying for a company?")
		b.Text("vat").Label("VAT number").Hide("value.company != true").Remove().Validators("required")

		form, err := formwork.New(b.Build(), formwork.WithID("checkout"))
		if err != nil {
			log.Fatal(err)
		}
		defer form.Close()

		fmt.Println(form.Value()) // map[company:false]

		_ = form.SetValue("company", true)
		fmt.Println(form.Value()) // map[company:true vat:]

		if err := form.Render(context.Background(), os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

Drafts of in-progress values are persisted through the session package and one of the DraftStore adapters (memory, file, redis).
*/
package formwork
