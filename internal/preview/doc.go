// Package preview serves a live view of a tree to browsers.
//
// A Server owns a runtime, a document and a schedule.Loop. Every change to
// the document is collected and, at the end of the loop task that caused
// it, encoded as one protocol batch and broadcast over websockets:
//
//	srv := preview.New(preview.Config{Addr: "localhost:3000", Title: "Resume"})
//	go srv.Run(ctx)
//	srv.Update(ctx, resume.Render(data, "en"))
//
// A client that connects receives a snapshot batch (FlagSnapshot) that
// rebuilds the current tree, then every later batch in sequence order.
// The page served on / carries an inline script that applies batches to
// the real DOM and sends events back as protocol Event frames. The server
// dispatches them on the node they name, so component handlers and
// SetState run exactly as they would in process.
package preview
