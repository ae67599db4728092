// Package publish writes rendered documents to their destination: a local
// file or an S3 bucket.
package publish

import (
	"bytes"
	"context"
	"io"
)

// Sink receives one rendered document.
type Sink interface {
	Publish(ctx context.Context, doc Document) error
}

// Document is a rendered file.
type Document struct {
	// Name is the file name or object key relative to the sink's root.
	Name        string
	ContentType string
	Body        io.Reader
}

// Multi publishes to every sink in order and stops at the first error.
// Body is buffered so each sink reads the full content.
type Multi []Sink

// Publish implements Sink.
func (m Multi) Publish(ctx context.Context, doc Document) error {
	if len(m) == 1 {
		return m[0].Publish(ctx, doc)
	}
	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return err
	}
	for _, s := range m {
		d := doc
		d.Body = bytes.NewReader(data)
		if err := s.Publish(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// As returns a sink that publishes every document to s under name, for
// destinations whose file name differs from the document's.
func As(s Sink, name string) Sink {
	return renamed{sink: s, name: name}
}

type renamed struct {
	sink Sink
	name string
}

func (r renamed) Publish(ctx context.Context, doc Document) error {
	doc.Name = r.name
	return r.sink.Publish(ctx, doc)
}
