// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapJpE4Ijq11YC8Le5MZsf6eQΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	slicejkEjkj28xouUD7Δ0LwKxnAΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.DocID, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Authors, bs[n:])
	n += varint.Int.Marshal(v.Year, bs[n:])
	n += ord.String.Marshal(v.Journal, bs[n:])
	n += ord.String.Marshal(v.DOI, bs[n:])
	n += ord.String.Marshal(v.Collection, bs[n:])
	n += ord.String.Marshal(v.Section, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(v.TokenEstimate, bs[n:])
	n += ord.Bool.Marshal(v.HasTaxonomyPattern, bs[n:])
	n += ord.Bool.Marshal(v.HasStructuredTable, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += slicejkEjkj28xouUD7Δ0LwKxnAΞΞ.Marshal(v.Vector, bs[n:])
	return n + mapJpE4Ijq11YC8Le5MZsf6eQΞΞ.Marshal(v.Metadata, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Authors, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Year, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Journal, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DOI, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Collection, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Section, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokenEstimate, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.HasTaxonomyPattern, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.HasStructuredTable, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicejkEjkj28xouUD7Δ0LwKxnAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapJpE4Ijq11YC8Le5MZsf6eQΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.DocID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Authors)
	size += varint.Int.Size(v.Year)
	size += ord.String.Size(v.Journal)
	size += ord.String.Size(v.DOI)
	size += ord.String.Size(v.Collection)
	size += ord.String.Size(v.Section)
	size += varint.Int.Size(v.ChunkIndex)
	size += varint.Int.Size(v.TokenEstimate)
	size += ord.Bool.Size(v.HasTaxonomyPattern)
	size += ord.Bool.Size(v.HasStructuredTable)
	size += ord.String.Size(v.Text)
	size += slicejkEjkj28xouUD7Δ0LwKxnAΞΞ.Size(v.Vector)
	return size + mapJpE4Ijq11YC8Le5MZsf6eQΞΞ.Size(v.Metadata)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicejkEjkj28xouUD7Δ0LwKxnAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapJpE4Ijq11YC8Le5MZsf6eQΞΞ.Skip(bs[n:])
	n += n1
	return
}
