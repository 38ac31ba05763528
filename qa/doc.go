// Package qa answers questions over the indexed paper corpus.
//
// The engine retrieves ranked evidence chunks, assembles them into cited
// context blocks, and prompts a generator under strict grounding rules:
// only the provided context may be used, every claim must carry a
// [doc_id - section] citation, and missing evidence yields a fixed
// "insufficient evidence" answer rather than a fabricated one.
package qa
