/*
Package surligne highlights the keywords of a pseudo-code text by zone.

A configuration is an ordered list of zones. Each zone has a color, a diagram shape and
a list of keywords. Highlighting escapes the text and wraps every keyword occurrence in a bold
span of its zone color. Longer keywords win over shorter ones. Word-like keywords only match
whole words; symbols such as "<=" match anywhere.

# Architecture

The engine (pkg/highlight) is pure: it takes text and a configuration snapshot and holds no
state. The editor (pkg/editor) owns the configuration, enforces the uniqueness of keywords
across zones and notifies a diagram view (pkg/ports.Notifier) when colors or shapes change.
Hosts sit on top: an HTTP server with per-workspace state, an MCP server and the surligne CLI.

# Usage

	eng, err := surligne.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := eng.Editor().AddKeyword(ctx, "boucles", "chaque"); err != nil {
		log.Fatal(err)
	}

	fmt.Println(eng.Highlight("pour chaque x"))

Presets can be loaded from YAML or JSON files with the file adapter:

	eng, err := surligne.New(surligne.WithSource(file.NewSource("zones.yaml")))
*/
package surligne
