package rag

import (
	"context"

	"github.com/kailas-cloud/topiclens/internal/domain/semantic"
)

// Retriever queries one named external semantic index. Implementations make
// exactly one outbound call per invocation and never retry.
type Retriever interface {
	Retrieve(
		ctx context.Context, index, semanticConfig, selectFields, query string,
	) (semantic.Result, error)
}

// Completer calls the external chat-completion model with a system framing
// message, an assembled knowledge block and the user question.
type Completer interface {
	Complete(ctx context.Context, framing, knowledge, question string) (string, error)
}
