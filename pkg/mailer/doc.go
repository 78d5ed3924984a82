// Package mailer renders Markdown email templates and hands the result to a
// pluggable [Sender].
//
// # Templates
//
// A template is a Markdown file with optional YAML front matter:
//
//	---
//	Subject: Your Order Has Shipped! - {{.ProductName}}
//	---
//	Hi there,
//
//	Your **{{md .ProductName}}** is on its way.
//
//	{{button "Track Package" .TrackingURL}}
//
// The body is executed twice with [text/template]. In HTML mode the md
// helper backslash-escapes Markdown punctuation and turns newlines into hard
// breaks, so user input renders as literal text; the output is converted
// with goldmark, sanitized, and placed into an [html/template] layout as
// {{.Content}}. In text mode the helpers return their input unchanged and
// the result becomes the plain-text alternative.
//
// Template helpers:
//
//   - md: escape a value for inline Markdown (identity in text mode)
//   - bold: **value** in HTML mode, value in text mode
//   - button: [!button|Label](URL) in HTML mode, "Label: URL" in text mode
//   - heading: a level-two heading in HTML mode, upper case in text mode
//
// # Sending
//
// [Mailer.Compose] renders a message without sending it. [Mailer.SendRaw]
// delivers a composed message and returns the provider's message ID, so a
// preview and a dispatch of the same input carry the same HTML. Provider failures are reported as [*SendError]
// with a [Category] so handlers can explain them to the operator.
//
// Providers live in sub-packages: smtp, resend, postmark, ses and devsender.
package mailer
