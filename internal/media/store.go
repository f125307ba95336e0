// Package media talks to the external media store. The engine treats media as
// opaque: an upload yields a stable content URL plus a deletable identifier,
// and nothing else about the blob matters here.
package media

import (
	"context"
)

// Kind selects the media resource type at the store.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Input is the polymorphic media ingress: either a raw byte payload or a
// pre-encoded blob/URL reference. Both converge on the same Upload shape.
type Input interface {
	isInput()
}

// Bytes is a raw byte payload, e.g. a multipart file body.
type Bytes struct {
	Data     []byte
	Filename string
}

func (Bytes) isInput() {}

// EncodedRef is a pre-encoded blob (data URI) or a URL the store can fetch.
type EncodedRef string

func (EncodedRef) isInput() {}

// Upload is the result of a successful store upload.
type Upload struct {
	URL      string `json:"url"`
	DeleteID string `json:"delete_id"`
}

// Store is the media store capability consumed by the post and story engines.
// Upload failures abort the owning mutation; Delete is best-effort.
type Store interface {
	Upload(ctx context.Context, in Input, kind Kind) (*Upload, error)
	Delete(ctx context.Context, deleteID string) error
}
