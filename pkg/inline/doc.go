// Package inline embeds local assets referenced by an HTML document so the
// document can be mailed without external dependencies.
//
// Three kinds of references are rewritten:
//
//   - <script src="app.js">          the file content becomes the script body
//   - <link rel="stylesheet" href>   replaced by a <style> element
//   - <img src="logo.png">           the src becomes a base64 data: URI
//
// References with a scheme (https:, cid:, data:) or a protocol-relative
// prefix (//) are left untouched. Local references are resolved against
// Options.RootPath inside Options.FS; a leading slash is relative to
// RootPath, not to the FS root, and a reference may not escape the FS.
//
// # Usage
//
//	in := inline.New()
//	out, err := in.Inline(ctx, html, inline.Options{
//		FS:       os.DirFS("templates"),
//		RootPath: "welcome",
//		Compress: true,
//	})
//
// # Attribute Mode
//
// With Options.Attribute set, only elements carrying the marker attribute
// (default "inline") are inlined:
//
//	<link rel="stylesheet" href="style.css" inline>
//
// The marker is removed from every inlined element.
//
// A document without inlinable references is returned unchanged, byte for
// byte. Otherwise the document is re-serialized, which normalizes markup the
// way an HTML5 parser does. Any failure aborts the whole call; Inline never
// returns partially inlined HTML.
package inline
