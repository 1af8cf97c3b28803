// Package internal provides the pattern library and the match engine of the
// translator.
//
// A Library is the ordered catalog of patterns. Each Pattern pairs a
// predicate over one syntax node with a rewrite that registers edits in an
// edit.Buffer. The built-in catalog covers the Arduino core calls, the
// setup/loop entry points, if/else, counted for loops, braces and math
// functions brought in through using declarations; more call patterns can be
// declared in config.
//
// The Engine walks the tree of one translation unit exactly once. For every
// node it evaluates each enabled pattern in library order and runs the
// rewrite of each one that matches right away, so the sequence of edits is
// reproducible for a given tree. The buffer is then rendered: overlapping
// replacements are reported as an edit conflict instead of being resolved.
//
// Usage:
//
//	lib, err := internal.NewLibrary(cfg.Rules, cfg.Calls)
//	if err != nil {
//	    // handle error
//	}
//	engine := internal.NewEngine(logger, lib)
//
//	out, err := engine.Run(ctx, "blink.ino", src)
//	if err != nil {
//	    // parse failure or edit conflict
//	}
//	fmt.Print(out.Output)
package internal
