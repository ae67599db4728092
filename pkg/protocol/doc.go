// Package protocol implements the binary wire format that streams host tree
// mutations from a vtree runtime to a remote mirror, and DOM events back.
//
// # Frames
//
// Every message travels in a frame with a 6-byte header:
//
//	┌──────────┬──────────┬───────────────────┐
//	│ Type (1) │ Flags (1)│ Length (4, BE)    │
//	└──────────┴──────────┴───────────────────┘
//	[Payload: Length bytes]
//
// FrameBatch carries a mutation batch (FlagSnapshot marks a batch that
// rebuilds the mirror from scratch), FrameEvent carries a client event and
// FrameError carries an ErrorMessage.
//
// # Encoding
//
//   - Varint: unsigned LEB128 for node IDs, counts and ops
//   - Strings: varint length followed by UTF-8 bytes
//   - Bool: one byte, 0x00 or 0x01
//
// # Batches
//
// A batch is the list of dom mutations recorded during one Render or Flush.
// Node IDs are the source document's IDs; the mirror keeps its own map from
// ID to node:
//
//	rec := doc.Observe(func(m dom.Mutation) { muts = append(muts, protocol.FromDOM(m)) })
//	rt.Render(tree, parent)
//	frame := protocol.NewFrame(protocol.FrameBatch,
//	    protocol.EncodeBatch(&protocol.Batch{Seq: 1, Mutations: muts}))
//
// On the other side:
//
//	mirror := protocol.NewMirror(rootID)
//	b, err := protocol.DecodeBatch(frame.Payload)
//	err = mirror.Apply(b)
//
// Decoders bound every length and count they read, and reject trailing
// bytes, so a corrupt payload fails instead of allocating.
package protocol
